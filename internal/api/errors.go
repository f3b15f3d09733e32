package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/service"
	"github.com/phrazzld/bookshelf-api/internal/service/auth"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

const unexpectedMessage = "An unexpected error occurred."

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking their types to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrBookNotOwned):
		return http.StatusNotFound

	case errors.Is(err, service.ErrBookAlreadyOwned),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, auth.ErrAuthenticationFailed),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the stable code reported for status.
func ErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return shared.CodeValidation
	case http.StatusNotFound:
		return shared.CodeNotFound
	case http.StatusConflict:
		return shared.CodeConflict
	case http.StatusUnauthorized:
		return shared.CodeAuthentication
	default:
		return shared.CodeUnexpected
	}
}

// GetSafeErrorMessage returns the message shown to the client. Service
// sentinels carry client-safe text; anything unexpected gets a generic
// message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedMessage
	}

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrAuthenticationFailed):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Full authentication is required to access this resource"
	case errors.As(err, &verr):
		return verr.Error()
	}

	switch MapErrorToStatusCode(err) {
	case http.StatusNotFound, http.StatusConflict:
		return err.Error()
	case http.StatusBadRequest:
		return "Invalid request data"
	default:
		return unexpectedMessage
	}
}

// HandleAPIError writes the error envelope for err. Validator failures
// produce one entry per failing field. Unexpected errors are logged with
// their redacted detail.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		shared.RespondWithErrors(w, r, http.StatusBadRequest, validationErrors(verrs))
		return
	}

	status := MapErrorToStatusCode(err)
	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, ErrorCode(status), GetSafeErrorMessage(err), err, opts...)
}

func validationErrors(verrs validator.ValidationErrors) []shared.ApiError {
	out := make([]shared.ApiError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, shared.ApiError{
			Code:    shared.CodeValidation,
			Message: fmt.Sprintf("%s %s", fe.Field(), validationTagMessage(fe)),
		})
	}
	return out
}

func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
