package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/project-causica/causica/cmd/causicad/config"
	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/project-causica/causica/pkg/registry"
	"github.com/project-causica/causica/pkg/store"
)

func SetupRouter(
	config *config.Config,
	store *store.Store,
	resolver *registry.Resolver,
	policy *condaenv.Policy,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(middleware.WithValue("store", store))
	r.Use(middleware.WithValue("config", config))
	r.Use(middleware.WithValue("resolver", resolver))
	r.Use(middleware.WithValue("policy", policy))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:9000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/api/lint", lintEnvironment)
	r.Post("/api/workflow/lint", lintWorkflow)
	r.Post("/api/resolve", resolve)
	r.Get("/api/resolutions", getResolutions)
	r.Get("/api/resolutions/{key}", getResolution)
	r.Delete("/api/resolutions/{key}", deleteResolution)

	return r
}
