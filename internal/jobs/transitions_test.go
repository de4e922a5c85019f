package jobs_test

import (
	"testing"

	"github.com/careerai/careerai/internal/jobs"
)

var allStatuses = []jobs.Status{
	jobs.StatusSaved,
	jobs.StatusApplied,
	jobs.StatusInterviewing,
	jobs.StatusOffer,
	jobs.StatusAccepted,
	jobs.StatusRejected,
}

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	for _, s := range allStatuses {
		got, err := jobs.ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q", s, got)
		}
	}
}

func TestParseStatus_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "SAVED", "withdrawn", "unknown"} {
		if _, err := jobs.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_HappyPath(t *testing.T) {
	path := []jobs.Status{jobs.StatusSaved, jobs.StatusApplied, jobs.StatusInterviewing, jobs.StatusOffer, jobs.StatusAccepted}
	for i := 0; i < len(path)-1; i++ {
		if !jobs.IsTransitionAllowed(path[i], path[i+1]) {
			t.Errorf("%s → %s should be allowed", path[i], path[i+1])
		}
	}
}

func TestIsTransitionAllowed_RejectFromAnyActiveState(t *testing.T) {
	for _, s := range []jobs.Status{jobs.StatusSaved, jobs.StatusApplied, jobs.StatusInterviewing, jobs.StatusOffer} {
		if !jobs.IsTransitionAllowed(s, jobs.StatusRejected) {
			t.Errorf("%s → rejected should be allowed", s)
		}
	}
}

func TestIsTransitionAllowed_Forbidden(t *testing.T) {
	cases := [][2]jobs.Status{
		{jobs.StatusSaved, jobs.StatusOffer},
		{jobs.StatusApplied, jobs.StatusSaved},
		{jobs.StatusOffer, jobs.StatusInterviewing},
		{jobs.StatusSaved, jobs.StatusSaved},
		{jobs.StatusAccepted, jobs.StatusRejected},
		{jobs.StatusRejected, jobs.StatusSaved},
	}
	for _, c := range cases {
		if jobs.IsTransitionAllowed(c[0], c[1]) {
			t.Errorf("%s → %s should be forbidden", c[0], c[1])
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range allStatuses {
		want := s == jobs.StatusAccepted || s == jobs.StatusRejected
		if got := jobs.IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}
