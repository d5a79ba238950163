package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vocdoni/commit-reveal/types"
)

// Ranking is a ranked poll aggregated with a Borda count. A ballot is
// a full permutation of the configured options; canonical bytes are
// the ranked options joined with 0x2C.
type Ranking struct{}

const TemplateRanking = "ranking"

const (
	minOptions = 1
	maxOptions = 10

	rankSeparator = ","
)

type rankingParams struct {
	Options []string `json:"options"`
}

func (Ranking) ID() string { return TemplateRanking }

func (Ranking) parseParams(params types.BallotValue) (*rankingParams, error) {
	p := &rankingParams{}
	if err := params.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParams, err)
	}
	if len(p.Options) < minOptions || len(p.Options) > maxOptions {
		return nil, fmt.Errorf("%w: between %d and %d options required, got %d",
			ErrParams, minOptions, maxOptions, len(p.Options))
	}
	seen := make(map[string]bool, len(p.Options))
	for _, opt := range p.Options {
		if opt == "" {
			return nil, fmt.Errorf("%w: empty option", ErrParams)
		}
		// the canonical form joins options with a comma, so options
		// must not contain one
		if strings.Contains(opt, rankSeparator) {
			return nil, fmt.Errorf("%w: option %q contains %q", ErrParams, opt, rankSeparator)
		}
		if seen[opt] {
			return nil, fmt.Errorf("%w: duplicate option %q", ErrParams, opt)
		}
		seen[opt] = true
	}
	return p, nil
}

func (t Ranking) ValidateParams(params types.BallotValue) error {
	_, err := t.parseParams(params)
	return err
}

func (t Ranking) parseBallot(value, params types.BallotValue) ([]string, error) {
	p, err := t.parseParams(params)
	if err != nil {
		return nil, err
	}
	ranked, err := value.AsStringSlice()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBallot, err)
	}
	if len(ranked) != len(p.Options) {
		return nil, fmt.Errorf("%w: expected %d ranked options, got %d",
			ErrBallot, len(p.Options), len(ranked))
	}
	valid := make(map[string]bool, len(p.Options))
	for _, opt := range p.Options {
		valid[opt] = true
	}
	seen := make(map[string]bool, len(ranked))
	for _, opt := range ranked {
		if !valid[opt] {
			return nil, fmt.Errorf("%w: %q is not an option", ErrBallot, opt)
		}
		if seen[opt] {
			return nil, fmt.Errorf("%w: option %q ranked twice", ErrBallot, opt)
		}
		seen[opt] = true
	}
	return ranked, nil
}

func (t Ranking) ValidateBallot(value, params types.BallotValue) error {
	_, err := t.parseBallot(value, params)
	return err
}

func (t Ranking) Canonicalize(value, params types.BallotValue) ([]byte, error) {
	ranked, err := t.parseBallot(value, params)
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join(ranked, rankSeparator)), nil
}

// RankedOption is one entry of a Borda ranking result.
type RankedOption struct {
	Option string `json:"option"`
	Score  int    `json:"score"`
}

// RankingResults is the aggregate shape of a ranking vote: options in
// descending Borda score order.
type RankingResults struct {
	Ranking []RankedOption `json:"ranking"`
}

func (t Ranking) Aggregate(values []types.BallotValue, params types.BallotValue) (any, error) {
	p, err := t.parseParams(params)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]int, len(p.Options))
	// tie order is first appearance across ballots, falling back to
	// the params order when no ballot mentions an option
	firstSeen := make(map[string]int, len(p.Options))
	next := 0
	for _, raw := range values {
		ranked, err := raw.AsStringSlice()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAggregate, err)
		}
		k := len(ranked)
		for i, opt := range ranked {
			scores[opt] += k - i
			if _, ok := firstSeen[opt]; !ok {
				firstSeen[opt] = next
				next++
			}
		}
	}
	for _, opt := range p.Options {
		if _, ok := firstSeen[opt]; !ok {
			firstSeen[opt] = next
			next++
		}
	}
	ranking := make([]RankedOption, 0, len(p.Options))
	for _, opt := range p.Options {
		ranking = append(ranking, RankedOption{Option: opt, Score: scores[opt]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return firstSeen[ranking[i].Option] < firstSeen[ranking[j].Option]
	})
	return &RankingResults{Ranking: ranking}, nil
}

func (Ranking) Schema() *Schema {
	return &Schema{
		ID:          TemplateRanking,
		Description: "full permutation of options, Borda count aggregation",
		ValueType:   "array of strings",
		Params: map[string]string{
			"options": "1 to 10 distinct non-empty strings without commas",
		},
		Result: "{ranking: [{option, score}]} in descending score order",
	}
}
