package engine

import (
	"context"
	"errors"

	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/types"
)

// The engine error kinds. Each off-phase condition has its own error
// so API layers can map them to deterministic status codes. Uniqueness
// conflicts from the store (storage.ErrAlreadyCommitted,
// storage.ErrAlreadyRevealed) are propagated verbatim.
var (
	ErrInvalidConfig   = errors.New("invalid vote configuration")
	ErrTemplateUnknown = errors.New("unknown template")
	ErrVoteNotFound    = errors.New("vote not found")
	ErrCommitClosed    = errors.New("commitment phase is not open")
	ErrRevealClosed    = errors.New("reveal phase is not open")
	ErrResultsNotReady = errors.New("results are not available before the reveal phase ends")
	ErrNoCommitment    = errors.New("no commitment for this voter")
	ErrSaltMismatch    = errors.New("reveal salt does not match the commitment salt")
	ErrHashMismatch    = errors.New("revealed ballot does not reproduce the commitment hash")
	ErrBallotInvalid   = errors.New("invalid ballot")
	ErrVoteCancelled   = errors.New("vote is cancelled")
	ErrVoteCompleted   = errors.New("vote is already completed")
	ErrTimeout         = errors.New("operation deadline exceeded")
)

// checkContext maps context expiry onto ErrTimeout. Called before
// every side effect so a cancelled request never leaves partial
// state.
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ErrTimeout
	}
	return nil
}

// loadVote fetches a vote, mapping storage.ErrNotFound onto the
// engine's ErrVoteNotFound.
func (e *Engine) loadVote(id string) (*types.Vote, error) {
	v, err := e.store.Vote(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}
	return v, nil
}
