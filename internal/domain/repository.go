package domain

import "context"

// JobRepository defines persistence for job records. Every write is scoped to
// a single job id and refreshes updated_at; there are no multi-row
// transactions.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	// ListActive returns jobs whose status is WAIT or RUN, oldest first,
	// bounded by limit.
	ListActive(ctx context.Context, limit int) ([]Job, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Job, error)
	// UpdateStatus writes the status together with the error fields. A nil
	// errCode or errMsg clears the stored value.
	UpdateStatus(ctx context.Context, jobID string, status JobStatus, errCode, errMsg *string) error
	// UpdateResult writes artifact URLs. Empty strings are skipped, never
	// written over a stored value.
	UpdateResult(ctx context.Context, jobID string, artifactURL, previewURL string) error
}
