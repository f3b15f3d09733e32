package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Book validation errors
var (
	ErrEmptyBookID    = errors.New("book ID cannot be empty")
	ErrEmptyBookTitle = errors.New("book title cannot be empty")
	ErrNegativePages  = errors.New("page count cannot be negative")
)

// Book is a catalog entry. The set of profiles owning a book is derived
// from the profile_books join table and is not a field of Book.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	Publisher string    `json:"publisher"`
	Year      string    `json:"year"`
	Pages     *int      `json:"pages"`
	ISBN      string    `json:"isbn"`
	Image     string    `json:"image"`
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyBookTitle
	}
	if b.Pages != nil && *b.Pages < 0 {
		return ErrNegativePages
	}
	return nil
}

// BookPatch carries a partial update. Blank strings and a nil Pages leave
// the corresponding field unchanged.
type BookPatch struct {
	Title     string
	Subtitle  string
	Author    string
	Genre     string
	Publisher string
	Year      string
	Pages     *int
	ISBN      string
	Image     string
}

// Apply copies every non-blank field of p onto b.
func (p BookPatch) Apply(b *Book) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&b.Title, p.Title)
	set(&b.Subtitle, p.Subtitle)
	set(&b.Author, p.Author)
	set(&b.Genre, p.Genre)
	set(&b.Publisher, p.Publisher)
	set(&b.Year, p.Year)
	set(&b.ISBN, p.ISBN)
	set(&b.Image, p.Image)
	if p.Pages != nil {
		pages := *p.Pages
		b.Pages = &pages
	}
}

// BookFilter narrows a catalog listing. Title and Author match as
// case-insensitive substrings, Genre as a case-insensitive equality.
type BookFilter struct {
	Title  string
	Author string
	Genre  string
}
