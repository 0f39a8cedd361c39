package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// DefaultProfilePic is assigned at registration when no image is supplied.
const DefaultProfilePic = "https://via.placeholder.com/150"

// Domain-level errors for identity behaviors
var (
	ErrUserExists         = errors.New("user: username or email already taken")
	ErrUserNotFound       = errors.New("user: not found")
	ErrInvalidCredentials = errors.New("user: invalid credentials")
	ErrInvalidUser        = errors.New("user: invalid registration data")
)

// User is the durable account record. PasswordHash never leaves the server.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	ProfilePic   string    `db:"profile_pic"`
	IsOnline     bool      `db:"is_online"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Summary is the client-visible projection of a User.
type Summary struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
	IsOnline   bool      `json:"isOnline"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Summary projects the user for API responses.
func (u User) Summary() Summary {
	return Summary{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		IsOnline:   u.IsOnline,
		CreatedAt:  u.CreatedAt,
	}
}

// NewUser normalizes and validates registration data. The password hash is
// produced by the use case layer; this constructor only shapes the record.
func NewUser(username, email, passwordHash, profilePic string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || passwordHash == "" {
		return nil, ErrInvalidUser
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidUser
	}
	if profilePic == "" {
		profilePic = DefaultProfilePic
	}

	now := time.Now().UTC()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		ProfilePic:   profilePic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
