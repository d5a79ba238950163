package template

import (
	"fmt"

	"github.com/vocdoni/commit-reveal/types"
)

// YesNo is a boolean poll. Canonical bytes are the ASCII strings
// "yes" and "no".
type YesNo struct{}

const TemplateYesNo = "yes_no"

func (YesNo) ID() string { return TemplateYesNo }

func (YesNo) ValidateParams(params types.BallotValue) error {
	return requireEmptyParams(params)
}

func (YesNo) ValidateBallot(value, _ types.BallotValue) error {
	if _, err := value.AsBool(); err != nil {
		return fmt.Errorf("%w: %v", ErrBallot, err)
	}
	return nil
}

func (YesNo) Canonicalize(value, _ types.BallotValue) ([]byte, error) {
	b, err := value.AsBool()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBallot, err)
	}
	if b {
		return []byte("yes"), nil
	}
	return []byte("no"), nil
}

// YesNoResults is the aggregate shape of a yes_no vote.
type YesNoResults struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Total int `json:"total"`
}

func (YesNo) Aggregate(values []types.BallotValue, _ types.BallotValue) (any, error) {
	res := &YesNoResults{}
	for _, v := range values {
		b, err := v.AsBool()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAggregate, err)
		}
		if b {
			res.Yes++
		} else {
			res.No++
		}
		res.Total++
	}
	return res, nil
}

func (YesNo) Schema() *Schema {
	return &Schema{
		ID:          TemplateYesNo,
		Description: "boolean yes/no poll",
		ValueType:   "boolean",
		Result:      "{yes, no, total} counters",
	}
}
