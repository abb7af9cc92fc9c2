package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"meshsync/internal/cache"
	"meshsync/internal/domain"
	"meshsync/internal/infra"
	"meshsync/internal/reconcile"
)

// App carries the dependencies shared by all HTTP handlers.
type App struct {
	Repo       domain.JobRepository
	Reconciler *reconcile.Reconciler
	Cache      cache.Cache
	CacheTTL   time.Duration
	Logger     infra.Logger
}

func NewApp(repo domain.JobRepository, rec *reconcile.Reconciler, c cache.Cache, cacheTTL time.Duration, logger infra.Logger) *App {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &App{Repo: repo, Reconciler: rec, Cache: c, CacheTTL: cacheTTL, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}
