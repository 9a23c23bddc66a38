package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/prospector/internal/infra/http/handlers"
	"github.com/xavierca1/prospector/internal/infra/http/middleware"
)

type routes struct {
	Health    *handlers.HealthHandler
	Leads     *handlers.LeadHandler
	Search    *handlers.SearchHandler
	Profile   *handlers.ProfileHandler
	Templates *handlers.TemplateHandler
	Session   *handlers.SessionHandler
}

func newRouter(h routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	h.Leads.Register(r)
	h.Search.Register(r)
	h.Profile.Register(r)
	h.Templates.Register(r)
	h.Session.Register(r)
	return r
}
