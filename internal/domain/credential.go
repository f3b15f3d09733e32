package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Credential validation errors
var (
	ErrEmptyCredentialID   = errors.New("credential ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// Credential is the authentication record of an account. It shares its ID
// with the account's Profile. Username is unique and never changes after
// creation; Email is unique.
type Credential struct {
	ID                    uuid.UUID `json:"id"`
	Username              string    `json:"username"`
	HashedPassword        string    `json:"-"`
	Email                 string    `json:"email"`
	CreatedAt             time.Time `json:"created_at"`
	Enabled               bool      `json:"enabled"`
	AccountNonExpired     bool      `json:"account_non_expired"`
	AccountNonLocked      bool      `json:"account_non_locked"`
	CredentialsNonExpired bool      `json:"credentials_non_expired"`
}

// NewCredential builds an enabled credential with all account flags set.
// CreatedAt is left zero; the store stamps it on insert.
func NewCredential(id uuid.UUID, username, email, hashedPassword string) (*Credential, error) {
	c := &Credential{
		ID:                    id,
		Username:              strings.TrimSpace(username),
		Email:                 strings.TrimSpace(email),
		HashedPassword:        hashedPassword,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Credential has valid data.
func (c *Credential) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCredentialID
	}
	if c.Username == "" {
		return ErrEmptyUsername
	}
	if c.Email == "" {
		return ErrEmptyEmail
	}
	if !ValidEmail(c.Email) {
		return ErrInvalidEmail
	}
	if c.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return nil
}

// ValidatePassword checks a plaintext password before it is hashed.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidEmail reports whether s is a bare RFC 5322 address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}
