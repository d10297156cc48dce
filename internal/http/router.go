package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/kakeibo/internal/http/admin"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/auth"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/category"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/export"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/importcsv"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/summary"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/target"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/web"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer auth on /api/v1 when non-empty.
	JWTSecret string
}

type Handlers struct {
	Expenses   *expense.Handler
	Categories *category.Handler
	Targets    *target.Handler
	Summary    *summary.Handler
	Export     *export.Handler
	Import     *importcsv.Handler
	Admin      *admin.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{web.SyncErrorHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.Middleware([]byte(opts.JWTSecret)))
		}

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Expenses.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Categories.Routes(r)
		})

		r.Route("/targets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Targets.Routes(r)
		})

		r.Route("/summary", h.Summary.Routes)
		r.Route("/export", h.Export.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/admin", h.Admin.Routes)
	})

	return router
}
