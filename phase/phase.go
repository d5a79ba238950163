// Package phase computes the activity state of a vote from wall-clock
// time and the vote deadlines. The stored status column is only an
// advisory cache; gating decisions always go through Compute. All
// intervals are closed-open: a request at exactly commitment_end is
// outside the commitment phase.
package phase

import (
	"time"

	"github.com/vocdoni/commit-reveal/types"
)

// Phase is the wall-clock-derived activity state of a vote.
type Phase string

const (
	Created    Phase = "created"
	Commitment Phase = "commitment"
	Between    Phase = "between"
	Reveal     Phase = "reveal"
	Ended      Phase = "ended"
	Completed  Phase = "completed"
	Cancelled  Phase = "cancelled"
)

// Compute returns the phase of v at the given instant. The terminal
// statuses Cancelled and Completed take precedence over the clock.
func Compute(v *types.Vote, now time.Time) Phase {
	switch v.Status {
	case types.StatusCancelled:
		return Cancelled
	case types.StatusCompleted:
		return Completed
	}
	switch {
	case now.Before(v.CommitmentStart):
		return Created
	case now.Before(v.CommitmentEnd):
		return Commitment
	case now.Before(v.RevealStart):
		return Between
	case now.Before(v.RevealEnd):
		return Reveal
	default:
		return Ended
	}
}

// CanCommit reports whether commits are accepted in p.
func CanCommit(p Phase) bool {
	return p == Commitment
}

// CanReveal reports whether reveals are accepted in p.
func CanReveal(p Phase) bool {
	return p == Reveal
}

// CanComputeResults reports whether results may be computed in p.
func CanComputeResults(p Phase) bool {
	return p == Ended || p == Completed
}
