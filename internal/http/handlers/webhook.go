package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"meshsync/internal/domain"
	"meshsync/internal/meshapi"
)

type jobNotification struct {
	JobID  string          `json:"job_id"`
	Status string          `json:"status"`
	Result *meshapi.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	UserID string          `json:"user_id,omitempty"`
}

// JobNotification is the push path: the mesh API delivers a status change
// instead of waiting to be polled. The write contract is identical to the
// poll path's (same mapping, normalization and diff-before-write), so
// duplicate or out-of-order deliveries are harmless; a job never seen before
// is created first.
func (a *App) JobNotification(w http.ResponseWriter, r *http.Request) {
	var payload jobNotification
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	payload.JobID = strings.TrimSpace(payload.JobID)
	if payload.JobID == "" || strings.TrimSpace(payload.Status) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id and status are required")
		return
	}

	ctx := r.Context()
	job, err := a.Repo.GetByID(ctx, payload.JobID)
	if errors.Is(err, domain.ErrNotFound) {
		job = &domain.Job{
			ID:     payload.JobID,
			Status: domain.JobStatusWait,
		}
		if owner := strings.TrimSpace(payload.UserID); owner != "" {
			job.OwnerID = &owner
		}
		if payload.Result != nil {
			job.Prompt = payload.Result.Prompt
		}
		if err := a.Repo.Create(ctx, job); err != nil {
			// A racing delivery may have created it first; reload and continue.
			job, err = a.Repo.GetByID(ctx, payload.JobID)
			if err != nil {
				a.Logger.Error().Err(err).Str("job_id", payload.JobID).Msg("handlers: create notified job failed")
				a.error(w, http.StatusInternalServerError, "internal", "failed to record job")
				return
			}
		}
	} else if err != nil {
		a.Logger.Error().Err(err).Str("job_id", payload.JobID).Msg("handlers: load notified job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}

	st := &meshapi.StatusResponse{
		Status: payload.Status,
		Result: payload.Result,
		Error:  payload.Error,
	}
	if err := a.Reconciler.ApplyUpdate(ctx, job, st); err != nil {
		a.Logger.Error().Err(err).Str("job_id", payload.JobID).Msg("handlers: apply notification failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to apply notification")
		return
	}

	a.json(w, http.StatusOK, map[string]string{
		"job_id": job.ID,
		"status": string(job.Status),
	})
}
