package auth

import (
	"errors"
	"testing"
	"time"

	"tollgate/models"
)

func testDirectory(t *testing.T) *UserDirectory {
	t.Helper()
	d, err := NewUserDirectory(DemoCredentials())
	if err != nil {
		t.Fatalf("NewUserDirectory: %v", err)
	}
	return d
}

func TestAuthenticate(t *testing.T) {
	d := testDirectory(t)

	tests := []struct {
		name     string
		username string
		password string
		role     models.UserRole
		wantErr  bool
	}{
		{"admin", "admin", "admin123", models.RoleAdmin, false},
		{"operator", "operator", "operator123", models.RoleOperator, false},
		{"viewer case-insensitive name", " Viewer ", "viewer123", models.RoleViewer, false},
		{"wrong password", "admin", "operator123", "", true},
		{"unknown user", "root", "admin123", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := d.Authenticate(tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("err = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if user.Role != tt.role {
				t.Errorf("role = %s, want %s", user.Role, tt.role)
			}
		})
	}
}

func TestDirectoryGetAndList(t *testing.T) {
	d := testDirectory(t)

	user, err := d.Get("user-operator")
	if err != nil || user.Username != "operator" {
		t.Errorf("Get = %+v, %v", user, err)
	}
	if _, err := d.Get("nobody"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get unknown err = %v", err)
	}

	users := d.List()
	if len(users) != 3 || users[0].Username != "admin" || users[2].Username != "viewer" {
		t.Errorf("List = %+v", users)
	}
}

func TestTokens(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	user := &models.User{UserID: "user-admin", Username: "admin", Role: models.RoleAdmin}

	access, err := m.GenerateToken(user)
	if err != nil {
		t.Fatal(err)
	}
	refresh, err := m.GenerateRefreshToken(user)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-admin" || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := m.ValidateToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := m.ValidateRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
	if _, err := m.ValidateRefreshToken(refresh); err != nil {
		t.Errorf("ValidateRefreshToken: %v", err)
	}

	other := NewJWTManager("other-secret", time.Minute, time.Hour)
	if _, err := other.ValidateToken(access); err == nil {
		t.Error("token signed with another key was accepted")
	}
}

func TestExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateToken(&models.User{UserID: "u", Username: "u", Role: models.RoleViewer})
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer ", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractToken(tt.header)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ExtractToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}
