package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewCredential(t *testing.T) {
	id := uuid.New()

	c, err := NewCredential(id, "  alice ", "alice@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if c.ID != id {
		t.Errorf("Expected ID %s, got %s", id, c.ID)
	}
	if c.Username != "alice" {
		t.Errorf("Expected trimmed username, got %q", c.Username)
	}
	if !c.Enabled || !c.AccountNonExpired || !c.AccountNonLocked || !c.CredentialsNonExpired {
		t.Error("Expected all account flags to default to true")
	}
	if !c.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be left for the store to set")
	}
}

func TestCredentialValidate(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		id       uuid.UUID
		username string
		email    string
		hash     string
		wantErr  error
	}{
		{"nil id", uuid.Nil, "alice", "alice@example.com", "h", ErrEmptyCredentialID},
		{"empty username", id, " ", "alice@example.com", "h", ErrEmptyUsername},
		{"empty email", id, "alice", "", "h", ErrEmptyEmail},
		{"invalid email", id, "alice", "alice-at-example", "h", ErrInvalidEmail},
		{"display name email", id, "alice", "Alice <alice@example.com>", "h", ErrInvalidEmail},
		{"email without dot in domain", id, "alice", "alice@localhost", "h", ErrInvalidEmail},
		{"empty hash", id, "alice", "alice@example.com", "", ErrEmptyHashedPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCredential(tt.id, tt.username, tt.email, tt.hash)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("correct horse"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidatePassword("   "); err != ErrEmptyPassword {
		t.Errorf("Expected %v, got %v", ErrEmptyPassword, err)
	}
	if err := ValidatePassword(strings.Repeat("a", MaxPasswordBytes+1)); err != ErrPasswordTooLong {
		t.Errorf("Expected %v, got %v", ErrPasswordTooLong, err)
	}
}
