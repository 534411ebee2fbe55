package handlers

import (
	"log"
	"net/http"

	"tollgate/auth"
	"tollgate/models"
)

type AuthHandler struct {
	users      *auth.UserDirectory
	jwtManager *auth.JWTManager
}

func NewAuthHandler(users *auth.UserDirectory, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success      bool         `json:"success"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		log.Printf("Login failed for user %s", req.Username)
		writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		log.Printf("Failed to generate token for user %s: %v", req.Username, err)
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.jwtManager.GenerateRefreshToken(user)
	if err != nil {
		log.Printf("Failed to generate refresh token for user %s: %v", req.Username, err)
		writeError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User logged in: %s (role: %s)", user.Username, user.Role)

	writeJSON(w, http.StatusOK, LoginResponse{
		Success:      true,
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		writeError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	user, err := h.users.Get(claims.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		log.Printf("Failed to generate token for user %s: %v", user.Username, err)
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, RefreshTokenResponse{Success: true, Token: token})
}
