package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tollgate/models"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential is a user definition with a plaintext password, hashed when
// the directory is built.
type Credential struct {
	User     models.User
	Password string
}

// DemoCredentials are the built-in dashboard accounts.
func DemoCredentials() []Credential {
	return []Credential{
		{models.User{UserID: "user-admin", Username: "admin", Name: "Administrator", Role: models.RoleAdmin}, "admin123"},
		{models.User{UserID: "user-operator", Username: "operator", Name: "Operator Gerbang", Role: models.RoleOperator}, "operator123"},
		{models.User{UserID: "user-viewer", Username: "viewer", Name: "Viewer", Role: models.RoleViewer}, "viewer123"},
	}
}

type account struct {
	user models.User
	hash string
}

// UserDirectory is a read-only set of accounts with bcrypt hashed passwords.
type UserDirectory struct {
	byName map[string]account
	byID   map[string]string
}

// NewUserDirectory hashes the given credentials.
func NewUserDirectory(creds []Credential) (*UserDirectory, error) {
	d := &UserDirectory{
		byName: make(map[string]account, len(creds)),
		byID:   make(map[string]string, len(creds)),
	}
	for _, c := range creds {
		hash, err := HashPassword(c.Password)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", c.User.Username, err)
		}
		name := strings.ToLower(c.User.Username)
		d.byName[name] = account{user: c.User, hash: hash}
		d.byID[c.User.UserID] = name
	}
	return d, nil
}

// Authenticate checks a username and password pair.
func (d *UserDirectory) Authenticate(username, password string) (*models.User, error) {
	acc, ok := d.byName[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(password, acc.hash); err != nil {
		return nil, ErrInvalidCredentials
	}
	user := acc.user
	return &user, nil
}

// Get returns the user with the given ID.
func (d *UserDirectory) Get(userID string) (*models.User, error) {
	name, ok := d.byID[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	user := d.byName[name].user
	return &user, nil
}

// List returns all users ordered by username.
func (d *UserDirectory) List() []models.User {
	users := make([]models.User, 0, len(d.byName))
	for _, acc := range d.byName {
		users = append(users, acc.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}
