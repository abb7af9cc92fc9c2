package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"meshsync/internal/domain"
)

const defaultOwnerListLimit = 50

// JobGet returns the stored record for one job.
func (a *App) JobGet(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	job, err := a.Repo.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: load job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	a.json(w, http.StatusOK, jobPayload(job))
}

// JobStatus returns just the job's status, served from the cache when the
// entry is fresh.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	if a.Cache != nil {
		if status, ok, err := a.Cache.GetJobStatus(r.Context(), jobID); err == nil && ok {
			a.json(w, http.StatusOK, map[string]string{"job_id": jobID, "status": status})
			return
		} else if err != nil {
			a.Logger.Debug().Err(err).Str("job_id", jobID).Msg("handlers: status cache read failed")
		}
	}
	job, err := a.Repo.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: load job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	// Terminal statuses are never cached: the reconciler invalidates the
	// entry on the terminal transition and the store stays authoritative.
	if a.Cache != nil && job.Status.Active() {
		if err := a.Cache.SetJobStatus(r.Context(), jobID, string(job.Status), a.CacheTTL); err != nil {
			a.Logger.Debug().Err(err).Str("job_id", jobID).Msg("handlers: status cache write failed")
		}
	}
	a.json(w, http.StatusOK, map[string]string{"job_id": jobID, "status": string(job.Status)})
}

// JobsList returns an owner's jobs, newest first.
func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "owner_id required")
		return
	}
	limit := defaultOwnerListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	jobs, err := a.Repo.ListByOwner(r.Context(), ownerID, limit)
	if err != nil {
		a.Logger.Error().Err(err).Str("owner_id", ownerID).Msg("handlers: list jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list jobs")
		return
	}
	items := make([]map[string]any, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobPayload(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func jobPayload(job *domain.Job) map[string]any {
	return map[string]any{
		"id":                  job.ID,
		"owner_id":            job.OwnerID,
		"status":              job.Status,
		"title":               jobTitle(job.Prompt),
		"prompt":              job.Prompt,
		"input_image_url":     job.InputImageURL,
		"result_artifact_url": job.ResultArtifactURL,
		"preview_image_url":   job.PreviewImageURL,
		"error_code":          job.ErrorCode,
		"error_message":       job.ErrorMessage,
		"created_at":          job.CreatedAt,
		"updated_at":          job.UpdatedAt,
	}
}

// jobTitle derives a short display title from the prompt.
func jobTitle(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) == 0 {
		return "Untitled Asset"
	}
	if len(words) > 6 {
		words = words[:6]
	}
	c := cases.Title(language.Und)
	return c.String(strings.Join(words, " "))
}
