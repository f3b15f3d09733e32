package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile validation errors
var (
	ErrEmptyProfileID   = errors.New("profile ID cannot be empty")
	ErrFutureBirthDate  = errors.New("birth date cannot be in the future")
	ErrEmptyProfileName = errors.New("username cannot be empty")
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

// Profile is the public side of an account. Its ID equals the ID of the
// Credential created alongside it. BookIDs is read from the profile_books
// join table and is never written through the profile row.
type Profile struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"userName"`
	Name      string      `json:"name"`
	BirthDate *time.Time  `json:"birthDate"`
	BookIDs   []uuid.UUID `json:"bookIds"`
}

// NewProfile creates a profile sharing id with its credential. The username
// is copied from the credential at creation time.
func NewProfile(id uuid.UUID, username, name string, birthDate *time.Time, now time.Time) (*Profile, error) {
	p := &Profile{
		ID:        id,
		Username:  strings.TrimSpace(username),
		Name:      strings.TrimSpace(name),
		BirthDate: birthDate,
		BookIDs:   []uuid.UUID{},
	}

	if err := p.Validate(now); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the profile against the clock reading now.
func (p *Profile) Validate(now time.Time) error {
	if p.ID == uuid.Nil {
		return ErrEmptyProfileID
	}
	if p.Username == "" {
		return ErrEmptyProfileName
	}
	if p.BirthDate != nil && p.BirthDate.After(now) {
		return ErrFutureBirthDate
	}
	return nil
}

// OwnsBook reports whether bookID is in the profile's book set.
func (p *Profile) OwnsBook(bookID uuid.UUID) bool {
	for _, id := range p.BookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}
