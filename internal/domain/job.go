package domain

import "time"

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusWait JobStatus = "WAIT"
	JobStatusRun  JobStatus = "RUN"
	JobStatusFail JobStatus = "FAIL"
	JobStatusDone JobStatus = "DONE"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusFail || s == JobStatusDone
}

// Active reports whether the job is still subject to polling.
func (s JobStatus) Active() bool {
	return s == JobStatusWait || s == JobStatusRun
}

// Job is the local record of a generation request accepted by the mesh API.
// The ID is assigned upstream and immutable, as are the creation-time request
// parameters. Status, result and error fields are mutated exclusively by the
// reconciliation paths (poll and push); a nil OwnerID marks a legacy job
// created before ownership existed.
type Job struct {
	ID                string
	OwnerID           *string
	Status            JobStatus
	Prompt            string
	InputImageURL     string
	ResultArtifactURL string
	PreviewImageURL   string
	ErrorCode         *string
	ErrorMessage      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
