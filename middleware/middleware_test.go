package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tollgate/auth"
	"tollgate/models"
)

type stubUsers map[string]*models.User

func (s stubUsers) Get(id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Minute, time.Hour)
	admin := &models.User{UserID: "u1", Username: "admin", Role: models.RoleAdmin}
	viewer := &models.User{UserID: "u2", Username: "viewer", Role: models.RoleViewer}
	ghost := &models.User{UserID: "u3", Username: "ghost", Role: models.RoleAdmin}
	users := stubUsers{"u1": admin, "u2": viewer}

	token := func(u *models.User) string {
		s, err := jwt.GenerateToken(u)
		if err != nil {
			t.Fatal(err)
		}
		return "Bearer " + s
	}
	refresh, _ := jwt.GenerateRefreshToken(admin)

	handler := AuthMiddleware(jwt, users)(RequireRole(models.RoleAdmin, models.RoleOperator)(okHandler))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"unknown user", token(ghost), http.StatusUnauthorized},
		{"viewer forbidden", token(viewer), http.StatusForbidden},
		{"admin allowed", token(admin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/sheets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	handler := rl.Middleware()(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("other client status = %d", rr.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.GetLimiter("a")

	now = now.Add(2 * time.Hour)
	rl.GetLimiter("b")

	if removed := rl.Cleanup(time.Hour); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Error("active limiter was removed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{"connection address", "", false, "192.0.2.1"},
		{"forwarded ignored without proxy", "203.0.113.9, 10.0.0.1", false, "192.0.2.1"},
		{"forwarded behind proxy", "203.0.113.9, 10.0.0.1", true, "203.0.113.9"},
		{"proxy without header", "", true, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	handler := rl.Middleware()(okHandler)

	codes := make([]int, 0, 2)
	for _, forwarded := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want second request limited", codes)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/sheets", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("allow origin = %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sheets", nil)
	req.Header.Set("Origin", "http://evil.test")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unlisted origin was allowed")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d", rr.Code)
	}
}
