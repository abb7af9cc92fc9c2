package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meshsync/internal/cache"
	"meshsync/internal/domain"
	"meshsync/internal/infra"
	"meshsync/internal/meshapi"
)

const defaultFailureMessage = "job failed"

// StatusFetcher is the slice of the mesh API client the reconciler needs.
type StatusFetcher interface {
	JobStatus(ctx context.Context, jobID string) (*meshapi.StatusResponse, error)
}

// Options configures a Reconciler.
type Options struct {
	Repo domain.JobRepository
	// Client fetches the upstream view of a job.
	Client StatusFetcher
	URLs   *URLNormalizer
	// Cache is optional; when set, active statuses are mirrored into it and
	// terminal transitions invalidate the entry.
	Cache        cache.Cache
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	Logger       infra.Logger
}

// Reconciler syncs a single stored job record with the mesh API's view of it.
type Reconciler struct {
	repo         domain.JobRepository
	client       StatusFetcher
	urls         *URLNormalizer
	cache        cache.Cache
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	logger       infra.Logger
}

// NewReconciler constructs a reconciler with sane defaults.
func NewReconciler(opts Options) *Reconciler {
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Reconciler{
		repo:         opts.Repo,
		client:       opts.Client,
		urls:         opts.URLs,
		cache:        opts.Cache,
		cacheTTL:     cacheTTL,
		fetchTimeout: fetchTimeout,
		logger:       opts.Logger,
	}
}

// ReconcileJob fetches the job's upstream status and issues the minimal set
// of writes needed to make the stored record consistent with it. It reports
// whether the sync was attempted successfully; every failure is contained
// here so one job can never abort a sibling's reconciliation.
func (r *Reconciler) ReconcileJob(ctx context.Context, jobID string) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	st, err := r.client.JobStatus(fetchCtx, jobID)
	if err != nil {
		if errors.Is(err, meshapi.ErrJobNotFound) {
			r.logger.Debug().Str("job_id", jobID).Msg("reconcile: job unknown upstream, skipping")
			return false
		}
		r.logger.Warn().Err(err).Str("job_id", jobID).Msg("reconcile: status fetch failed")
		return false
	}

	job, err := r.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Debug().Str("job_id", jobID).Msg("reconcile: no stored record, skipping")
			return false
		}
		r.logger.Error().Err(err).Str("job_id", jobID).Msg("reconcile: load stored record failed")
		return false
	}

	if err := r.ApplyUpdate(ctx, job, st); err != nil {
		r.logger.Error().Err(err).Str("job_id", jobID).Msg("reconcile: apply update failed")
		return false
	}
	return true
}

// ApplyUpdate diffs the upstream status against the stored record and writes
// only what changed. It is the single write contract shared by the poll loop
// and the push notification path: statuses are mapped through MapStatus,
// artifact URLs are normalized before comparison, a terminal stored status is
// never transitioned away from, and reapplying an unchanged payload performs
// zero writes.
func (r *Reconciler) ApplyUpdate(ctx context.Context, job *domain.Job, st *meshapi.StatusResponse) error {
	if job.Status.Terminal() {
		return nil
	}

	mapped := MapStatus(st.Status)
	if mapped != job.Status {
		var errMsg *string
		if mapped == domain.JobStatusFail {
			msg := st.Error
			if msg == "" {
				msg = defaultFailureMessage
			}
			errMsg = &msg
		}
		// error_code is always rewritten: cleared on failure (the upstream
		// payload carries no code), cleared on any other transition.
		if err := r.repo.UpdateStatus(ctx, job.ID, mapped, nil, errMsg); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		job.Status = mapped
		job.ErrorCode = nil
		job.ErrorMessage = errMsg
	}

	if mapped == domain.JobStatusDone && st.Result != nil {
		mesh := r.urls.MeshURL(job.ID, st.Result.MeshCandidate())
		preview := r.urls.PreviewURL(job.ID, st.Result.PreviewCandidate())
		if mesh == job.ResultArtifactURL {
			mesh = ""
		}
		if preview == job.PreviewImageURL {
			preview = ""
		}
		if mesh != "" || preview != "" {
			if err := r.repo.UpdateResult(ctx, job.ID, mesh, preview); err != nil {
				return fmt.Errorf("update result: %w", err)
			}
			if mesh != "" {
				job.ResultArtifactURL = mesh
			}
			if preview != "" {
				job.PreviewImageURL = preview
			}
		}
	}

	if r.cache != nil {
		if job.Status.Terminal() {
			if err := r.cache.DeleteJobStatus(ctx, job.ID); err != nil {
				r.logger.Debug().Err(err).Str("job_id", job.ID).Msg("reconcile: status cache invalidation failed")
			}
		} else if err := r.cache.SetJobStatus(ctx, job.ID, string(job.Status), r.cacheTTL); err != nil {
			r.logger.Debug().Err(err).Str("job_id", job.ID).Msg("reconcile: status cache write failed")
		}
	}
	return nil
}
