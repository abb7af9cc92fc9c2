package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"meshsync/internal/http/handlers"
	"meshsync/internal/infra"
	"meshsync/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Get("/", app.JobsList)
		r.Get("/{job_id}", app.JobGet)
		r.Get("/{job_id}/status", app.JobStatus)
	})

	r.Post("/v1/webhooks/jobs", app.JobNotification)

	return r
}
