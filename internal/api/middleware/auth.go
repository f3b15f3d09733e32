package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/redact"
	"github.com/phrazzld/bookshelf-api/internal/service/auth"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves bearer tokens into request identities.
type AuthMiddleware struct {
	codec  auth.TokenCodec
	logger *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(codec auth.TokenCodec, logger *slog.Logger) *AuthMiddleware {
	if codec == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("token codec cannot be nil for AuthMiddleware")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		codec:  codec,
		logger: logger.With(slog.String("component", "auth_gate")),
	}
}

// Gate installs the identity of a valid bearer token in the request
// context. It never writes a response: requests without a bearer token,
// or with one that fails verification, continue anonymously.
func (m *AuthMiddleware) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromContextOrDefault(r.Context(), m.logger)
		token := strings.TrimPrefix(header, bearerPrefix)

		claims, err := m.codec.Verify(r.Context(), token)
		if err != nil {
			log.Warn("rejected bearer token",
				slog.String("error", redact.Error(err)),
				slog.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}

		ctx := shared.WithIdentity(r.Context(), shared.Identity{
			Principal:   m.codec.ExtractSubject(claims),
			Authorities: []string{},
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity answers 401 when the gate left the request anonymous.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.IdentityFromContext(r.Context()); !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				shared.CodeAuthentication, "Full authentication is required to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
