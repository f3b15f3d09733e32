package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/service"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Name      string      `json:"name"`
	BirthDate shared.Date `json:"birthDate"`
	Username  string      `json:"username"  validate:"required"`
	Password  string      `json:"password"  validate:"required,max=72"`
	Email     string      `json:"email"     validate:"required,email"`
}

func (req RegisterRequest) toService() service.RegisterRequest {
	return service.RegisterRequest{
		Name:      req.Name,
		BirthDate: req.BirthDate.Ptr(),
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
	}
}

// BookRequest is the body of book create and update requests. Older
// clients send the genre as "gender"; it is read when "genre" is blank.
type BookRequest struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	Gender    string `json:"gender"`
	Publisher string `json:"publisher"`
	Year      string `json:"year"`
	Pages     *int   `json:"pages"     validate:"omitempty,gte=0"`
	ISBN      string `json:"isbn"`
	Image     string `json:"image"`
}

func (req BookRequest) toPatch() domain.BookPatch {
	genre := req.Genre
	if strings.TrimSpace(genre) == "" {
		genre = req.Gender
	}
	return domain.BookPatch{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		Author:    req.Author,
		Genre:     genre,
		Publisher: req.Publisher,
		Year:      req.Year,
		Pages:     req.Pages,
		ISBN:      req.ISBN,
		Image:     req.Image,
	}
}

// BookResponse is the public view of a catalog book.
type BookResponse struct {
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

func bookToResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Author:    b.Author,
		Genre:     b.Genre,
		Publisher: b.Publisher,
		Year:      b.Year,
		Pages:     b.Pages,
		ISBN:      b.ISBN,
		Image:     b.Image,
	}
}

// BookOwnersResponse lists the profiles that own a book.
type BookOwnersResponse struct {
	BookID   uuid.UUID   `json:"bookId"`
	OwnerIDs []uuid.UUID `json:"ownerIds"`
}

// UserRequest is the body of a profile update. Blank fields are left as
// they are; a non-empty bookIds replaces the collection.
type UserRequest struct {
	UserName  string      `json:"userName"`
	Name      string      `json:"name"`
	BirthDate shared.Date `json:"birthDate"`
	BookIDs   []uuid.UUID `json:"bookIds"`
}

func (req UserRequest) toUpdate() service.ProfileUpdate {
	return service.ProfileUpdate{
		Username:  req.UserName,
		Name:      req.Name,
		BirthDate: req.BirthDate.Ptr(),
		BookIDs:   req.BookIDs,
	}
}

// UserResponse is the public view of a profile.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	UserName  string      `json:"userName"`
	Name      string      `json:"name"`
	BirthDate shared.Date `json:"birthDate"`
	BookIDs   []uuid.UUID `json:"bookIds"`
}

func profileToResponse(p *domain.Profile) UserResponse {
	books := p.BookIDs
	if books == nil {
		books = []uuid.UUID{}
	}
	return UserResponse{
		ID:        p.ID,
		UserName:  p.Username,
		Name:      p.Name,
		BirthDate: shared.DateFrom(p.BirthDate),
		BookIDs:   books,
	}
}
