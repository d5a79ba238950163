package template

import (
	"fmt"

	"github.com/vocdoni/commit-reveal/types"
)

// MultipleChoice is a pick-one poll over an ordered list of choices.
// Canonical bytes are the UTF-8 encoding of the chosen string.
type MultipleChoice struct{}

const TemplateMultipleChoice = "multiple_choice"

const (
	minChoices = 1
	maxChoices = 20
)

type multipleChoiceParams struct {
	Choices []string `json:"choices"`
}

func (MultipleChoice) ID() string { return TemplateMultipleChoice }

func (MultipleChoice) parseParams(params types.BallotValue) (*multipleChoiceParams, error) {
	p := &multipleChoiceParams{}
	if err := params.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParams, err)
	}
	if len(p.Choices) < minChoices || len(p.Choices) > maxChoices {
		return nil, fmt.Errorf("%w: between %d and %d choices required, got %d",
			ErrParams, minChoices, maxChoices, len(p.Choices))
	}
	seen := make(map[string]bool, len(p.Choices))
	for _, choice := range p.Choices {
		if choice == "" {
			return nil, fmt.Errorf("%w: empty choice", ErrParams)
		}
		// distinct strings keep canonicalization injective
		if seen[choice] {
			return nil, fmt.Errorf("%w: duplicate choice %q", ErrParams, choice)
		}
		seen[choice] = true
	}
	return p, nil
}

func (t MultipleChoice) ValidateParams(params types.BallotValue) error {
	_, err := t.parseParams(params)
	return err
}

func (t MultipleChoice) ValidateBallot(value, params types.BallotValue) error {
	p, err := t.parseParams(params)
	if err != nil {
		return err
	}
	chosen, err := value.AsString()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBallot, err)
	}
	for _, choice := range p.Choices {
		if choice == chosen {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not one of the choices", ErrBallot, chosen)
}

func (t MultipleChoice) Canonicalize(value, params types.BallotValue) ([]byte, error) {
	if err := t.ValidateBallot(value, params); err != nil {
		return nil, err
	}
	chosen, err := value.AsString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBallot, err)
	}
	return []byte(chosen), nil
}

// MultipleChoiceResults is the aggregate shape of a multiple_choice
// vote. Results carries a counter per choice, zero for unused ones.
type MultipleChoiceResults struct {
	Total   int            `json:"total"`
	Results map[string]int `json:"results"`
}

func (t MultipleChoice) Aggregate(values []types.BallotValue, params types.BallotValue) (any, error) {
	p, err := t.parseParams(params)
	if err != nil {
		return nil, err
	}
	res := &MultipleChoiceResults{Results: make(map[string]int, len(p.Choices))}
	for _, choice := range p.Choices {
		res.Results[choice] = 0
	}
	for _, v := range values {
		chosen, err := v.AsString()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAggregate, err)
		}
		if _, ok := res.Results[chosen]; !ok {
			return nil, fmt.Errorf("%w: revealed value %q is not a choice", ErrAggregate, chosen)
		}
		res.Results[chosen]++
		res.Total++
	}
	return res, nil
}

func (MultipleChoice) Schema() *Schema {
	return &Schema{
		ID:          TemplateMultipleChoice,
		Description: "pick one of an ordered list of choices",
		ValueType:   "string",
		Params: map[string]string{
			"choices": "ordered list of 1 to 20 distinct non-empty strings",
		},
		Result: "{total, results: {choice: count}} with zero entries for unused choices",
	}
}
