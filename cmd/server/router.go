package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/bookshelf-api/internal/api"
	apiMiddleware "github.com/phrazzld/bookshelf-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	if app.registry != nil {
		metrics, err := apiMiddleware.NewMetrics(app.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register http metrics: %w", err)
		}
		r.Use(metrics.Middleware)
	}

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenCodec, app.logger)
	r.Use(authMiddleware.Gate)

	if app.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	}

	authHandler := api.NewAuthHandler(app.accounts, app.logger)
	bookHandler := api.NewBookHandler(app.books, app.logger)
	userHandler := api.NewUserHandler(app.profiles, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireIdentity)

			r.Route("/books", func(r chi.Router) {
				r.Get("/findAll", bookHandler.FindAll)
				r.Get("/findById/{id}", bookHandler.FindByID)
				r.Get("/findById/{id}/owners", bookHandler.FindOwners)
				r.Get("/isbn/{isbn}", bookHandler.FindByISBN)
				r.Post("/create", bookHandler.Create)
				r.Put("/update/{id}", bookHandler.Update)
				r.Delete("/delete/{id}", bookHandler.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/findAll", userHandler.FindAll)
				r.Get("/findById/{id}", userHandler.FindByID)
				r.Get("/logged", userHandler.Logged)
				r.Put("/update/{id}", userHandler.Update)
				r.Delete("/delete/{id}", userHandler.Delete)
				r.Post("/{userId}/books/{bookId}", userHandler.AddBook)
				r.Delete("/{userId}/books/{bookId}", userHandler.RemoveBook)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r, nil
}
