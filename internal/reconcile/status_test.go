package reconcile

import (
	"testing"

	"meshsync/internal/domain"
)

func TestMapStatusKnownVocabulary(t *testing.T) {
	cases := map[string]domain.JobStatus{
		"pending":    domain.JobStatusWait,
		"processing": domain.JobStatusRun,
		"completed":  domain.JobStatusDone,
		"failed":     domain.JobStatusFail,
		"cancelled":  domain.JobStatusFail,
	}
	for external, want := range cases {
		if got := MapStatus(external); got != want {
			t.Errorf("MapStatus(%q) = %q, want %q", external, got, want)
		}
	}
}

func TestMapStatusUnrecognizedDegradesToWait(t *testing.T) {
	for _, external := range []string{"", "queued", "COMPLETED???", "nonsense", "  ", "done"} {
		got := MapStatus(external)
		if got != domain.JobStatusWait {
			t.Errorf("MapStatus(%q) = %q, want WAIT", external, got)
		}
		if got.Terminal() {
			t.Errorf("MapStatus(%q) produced terminal status %q", external, got)
		}
	}
}

func TestMapStatusIsTotal(t *testing.T) {
	valid := map[domain.JobStatus]bool{
		domain.JobStatusWait: true,
		domain.JobStatusRun:  true,
		domain.JobStatusFail: true,
		domain.JobStatusDone: true,
	}
	for _, external := range []string{"pending", "processing", "completed", "failed", "cancelled", "", "???", "Pending"} {
		if got := MapStatus(external); !valid[got] {
			t.Fatalf("MapStatus(%q) = %q, not one of the four internal states", external, got)
		}
	}
}
