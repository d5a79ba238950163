package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/phase"
	"github.com/vocdoni/commit-reveal/types"
	"github.com/vocdoni/commit-reveal/util"
)

// CreateVote validates the configuration and inserts a new vote. The
// commitment phase opens immediately; the reveal phase follows it
// back to back. Phase timestamps are set once and never change.
func (e *Engine) CreateVote(ctx context.Context, cfg *types.VoteConfig) (*types.Vote, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := e.validateConfig(cfg); err != nil {
		return nil, err
	}

	now := e.timestamp()
	commitmentEnd := now.Add(cfg.CommitmentDuration.Std())
	v := &types.Vote{
		ID:              util.RandomToken(types.VoteIDLen),
		Title:           cfg.Title,
		Description:     cfg.Description,
		TemplateID:      cfg.TemplateID,
		TemplateParams:  cfg.TemplateParams,
		Creator:         cfg.Creator,
		CreatedAt:       now,
		CommitmentStart: now,
		CommitmentEnd:   commitmentEnd,
		RevealStart:     commitmentEnd,
		RevealEnd:       commitmentEnd.Add(cfg.RevealDuration.Std()),
		Status:          types.StatusCreated,
	}
	if err := e.store.AddVote(v); err != nil {
		return nil, fmt.Errorf("store vote: %w", err)
	}
	log.Infow("vote created",
		"voteId", v.ID,
		"template", v.TemplateID,
		"creator", v.Creator,
		"commitmentEnd", v.CommitmentEnd,
		"revealEnd", v.RevealEnd,
	)
	return v, nil
}

func (e *Engine) validateConfig(cfg *types.VoteConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: missing configuration", ErrInvalidConfig)
	}
	if n := len(cfg.Title); n < 1 || n > types.TitleMaxLen {
		return fmt.Errorf("%w: title must be 1 to %d characters", ErrInvalidConfig, types.TitleMaxLen)
	}
	if n := len(cfg.Description); n < 1 || n > types.DescriptionMaxLen {
		return fmt.Errorf("%w: description must be 1 to %d characters", ErrInvalidConfig, types.DescriptionMaxLen)
	}
	if cfg.Creator == "" {
		return fmt.Errorf("%w: missing creator", ErrInvalidConfig)
	}
	for _, d := range []types.Duration{cfg.CommitmentDuration, cfg.RevealDuration} {
		if d.Std() < e.minDuration || d.Std() > e.maxDuration {
			return fmt.Errorf("%w: phase durations must be between %s and %s",
				ErrInvalidConfig, e.minDuration, e.maxDuration)
		}
	}
	tpl, ok := e.templates.Get(cfg.TemplateID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrTemplateUnknown, cfg.TemplateID)
	}
	if err := tpl.ValidateParams(cfg.TemplateParams); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Vote returns a vote and its current phase.
func (e *Engine) Vote(ctx context.Context, id string) (*types.Vote, phase.Phase, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	v, err := e.loadVote(id)
	if err != nil {
		return nil, "", err
	}
	return v, phase.Compute(v, e.timestamp()), nil
}

// ListVotes returns one page of votes matching the filter, newest
// first.
func (e *Engine) ListVotes(ctx context.Context, filter *types.VoteFilter, page, pageSize int) (*types.VotePage, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if pageSize == 0 {
		pageSize = types.DefaultPageSize
	}
	if page < 1 || pageSize < 1 || pageSize > types.MaxPageSize {
		return nil, fmt.Errorf("%w: invalid pagination", ErrInvalidConfig)
	}
	votes, err := e.store.ListVotes(filter)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	total := len(votes)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := votes[start:end]
	if items == nil {
		items = []*types.Vote{}
	}
	return &types.VotePage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Cancel marks a vote as cancelled. Cancelling an already cancelled
// vote is a no-op; a completed vote cannot be cancelled.
func (e *Engine) Cancel(ctx context.Context, id string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	v, err := e.loadVote(id)
	if err != nil {
		return err
	}
	switch v.Status {
	case types.StatusCancelled:
		return nil
	case types.StatusCompleted:
		return ErrVoteCompleted
	}
	if err := e.store.UpdateVoteStatus(id, types.StatusCancelled); err != nil {
		return fmt.Errorf("cancel vote: %w", err)
	}
	log.Infow("vote cancelled", "voteId", id)
	return nil
}
