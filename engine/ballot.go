package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vocdoni/commit-reveal/crypto/commitment"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/phase"
	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/types"
)

// Commit records a voter's commitment hash. The engine never sees the
// ballot at this point; the hash is treated as opaque hex. Exactly one
// commitment per (vote, voter) can ever succeed.
func (e *Engine) Commit(ctx context.Context, voteID, voter, hash string, salt []byte, algorithm string) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	v, err := e.loadVote(voteID)
	if err != nil {
		return "", err
	}
	now := e.timestamp()
	if p := phase.Compute(v, now); !phase.CanCommit(p) {
		if p == phase.Cancelled {
			return "", ErrVoteCancelled
		}
		return "", fmt.Errorf("%w: current phase is %s", ErrCommitClosed, p)
	}
	if algorithm == "" {
		algorithm = commitment.DefaultAlgorithm
	}
	if !commitment.Supported(algorithm) {
		return "", fmt.Errorf("%w: unknown commitment algorithm %q", ErrInvalidConfig, algorithm)
	}
	if n := len(voter); n < 1 || n > types.VoterMaxLen {
		return "", fmt.Errorf("%w: voter must be 1 to %d characters", ErrInvalidConfig, types.VoterMaxLen)
	}
	if !commitment.IsHashHex(hash) {
		return "", fmt.Errorf("%w: commitment hash must be %d lowercase hex characters",
			ErrInvalidConfig, commitment.HashHexLen)
	}
	if n := len(salt); n < types.SaltMinLen || n > types.SaltMaxLen {
		return "", fmt.Errorf("%w: salt must be %d to %d bytes",
			ErrInvalidConfig, types.SaltMinLen, types.SaltMaxLen)
	}

	c := &types.Commitment{
		ID:        uuid.NewString(),
		VoteID:    voteID,
		Voter:     voter,
		Hash:      hash,
		Algorithm: algorithm,
		Salt:      salt,
		CreatedAt: now,
	}
	if err := e.store.AddCommitment(c); err != nil {
		return "", err
	}
	// advisory status cache; failures only cost freshness
	if v.Status == types.StatusCreated {
		if err := e.store.UpdateVoteStatus(voteID, types.StatusCommitmentPhase); err != nil {
			log.Warnw("failed to advance vote status", "voteId", voteID, "error", err.Error())
		}
	}
	log.Debugw("commitment accepted", "voteId", voteID, "voter", voter, "algorithm", algorithm)
	return c.ID, nil
}

// Reveal discloses a voter's ballot and salt, verifies both against
// the stored commitment and persists the reveal. Verification order:
// phase, commitment existence, salt equality, ballot validity,
// hash equality.
func (e *Engine) Reveal(ctx context.Context, voteID, voter string, value types.BallotValue, salt []byte) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	v, err := e.loadVote(voteID)
	if err != nil {
		return "", err
	}
	now := e.timestamp()
	if p := phase.Compute(v, now); !phase.CanReveal(p) {
		if p == phase.Cancelled {
			return "", ErrVoteCancelled
		}
		return "", fmt.Errorf("%w: current phase is %s", ErrRevealClosed, p)
	}

	c, err := e.store.Commitment(voteID, voter)
	if err != nil {
		if err == storage.ErrNotFound {
			return "", ErrNoCommitment
		}
		return "", fmt.Errorf("load commitment: %w", err)
	}
	if !bytes.Equal(salt, c.Salt) {
		return "", ErrSaltMismatch
	}

	tpl, ok := e.templates.Get(v.TemplateID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateUnknown, v.TemplateID)
	}
	if err := tpl.ValidateBallot(value, v.TemplateParams); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBallotInvalid, err)
	}
	canonical, err := tpl.Canonicalize(value, v.TemplateParams)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBallotInvalid, err)
	}
	if !commitment.VerifyWith(c.Algorithm, canonical, salt, c.Hash) {
		return "", ErrHashMismatch
	}

	r := &types.Reveal{
		ID:        uuid.NewString(),
		VoteID:    voteID,
		Voter:     voter,
		Value:     value,
		Salt:      salt,
		CreatedAt: now,
	}
	if err := e.store.AddReveal(r); err != nil {
		return "", err
	}
	if v.Status == types.StatusCreated || v.Status == types.StatusCommitmentPhase {
		if err := e.store.UpdateVoteStatus(voteID, types.StatusRevealPhase); err != nil {
			log.Warnw("failed to advance vote status", "voteId", voteID, "error", err.Error())
		}
	}
	log.Debugw("reveal accepted", "voteId", voteID, "voter", voter)
	return r.ID, nil
}
