package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/phase"
	"github.com/vocdoni/commit-reveal/types"
)

// Results aggregates the revealed ballots of a vote once its reveal
// phase has ended. The first call computes and persists the results
// and marks the vote Completed; subsequent calls return the cached
// copy unchanged.
func (e *Engine) Results(ctx context.Context, voteID string) (*types.VoteResults, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	v, err := e.loadVote(voteID)
	if err != nil {
		return nil, err
	}
	now := e.timestamp()
	if p := phase.Compute(v, now); !phase.CanComputeResults(p) {
		if p == phase.Cancelled {
			return nil, ErrVoteCancelled
		}
		return nil, fmt.Errorf("%w: current phase is %s", ErrResultsNotReady, p)
	}
	if v.Results != nil {
		return v.Results, nil
	}

	reveals, err := e.store.ListReveals(voteID)
	if err != nil {
		return nil, fmt.Errorf("list reveals: %w", err)
	}
	values := make([]types.BallotValue, 0, len(reveals))
	for _, r := range reveals {
		values = append(values, r.Value)
	}

	tpl, ok := e.templates.Get(v.TemplateID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateUnknown, v.TemplateID)
	}
	aggregated, err := tpl.Aggregate(values, v.TemplateParams)
	if err != nil {
		return nil, fmt.Errorf("aggregate ballots: %w", err)
	}
	raw, err := json.Marshal(aggregated)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}

	results := &types.VoteResults{
		VoteID:       voteID,
		TotalVotes:   len(values),
		Results:      raw,
		CalculatedAt: now,
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := e.store.CompleteVote(voteID, results); err != nil {
		return nil, fmt.Errorf("store results: %w", err)
	}
	log.Infow("results calculated", "voteId", voteID, "totalVotes", results.TotalVotes)
	return results, nil
}
