package reconcile

import (
	"strings"

	"meshsync/internal/domain"
)

// MapStatus translates the mesh API status vocabulary into the internal
// four-state model. Unrecognized input degrades to WAIT so the job is retried
// on the next cycle instead of being treated as finished.
func MapStatus(external string) domain.JobStatus {
	switch strings.ToLower(strings.TrimSpace(external)) {
	case "pending":
		return domain.JobStatusWait
	case "processing":
		return domain.JobStatusRun
	case "completed":
		return domain.JobStatusDone
	case "failed", "cancelled":
		return domain.JobStatusFail
	default:
		return domain.JobStatusWait
	}
}
