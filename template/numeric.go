package template

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vocdoni/commit-reveal/types"
)

// NumericRange is a numeric poll over an optional [min, max] interval.
// Canonical bytes are the shortest round-trip decimal representation
// of the value, the same form IEEE-754 Number::toString produces.
type NumericRange struct{}

const TemplateNumericRange = "numeric_range"

type numericRangeParams struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (NumericRange) ID() string { return TemplateNumericRange }

func (NumericRange) parseParams(params types.BallotValue) (*numericRangeParams, error) {
	p := &numericRangeParams{}
	if params.IsEmpty() {
		return p, nil
	}
	if err := params.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParams, err)
	}
	for _, bound := range []*float64{p.Min, p.Max} {
		if bound != nil && (math.IsNaN(*bound) || math.IsInf(*bound, 0)) {
			return nil, fmt.Errorf("%w: bounds must be finite", ErrParams)
		}
	}
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return nil, fmt.Errorf("%w: min %v greater than max %v", ErrParams, *p.Min, *p.Max)
	}
	return p, nil
}

func (t NumericRange) ValidateParams(params types.BallotValue) error {
	_, err := t.parseParams(params)
	return err
}

func (t NumericRange) parseBallot(value, params types.BallotValue) (float64, error) {
	p, err := t.parseParams(params)
	if err != nil {
		return 0, err
	}
	v, err := value.AsNumber()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBallot, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: value must be finite", ErrBallot)
	}
	if p.Min != nil && v < *p.Min {
		return 0, fmt.Errorf("%w: %v below minimum %v", ErrBallot, v, *p.Min)
	}
	if p.Max != nil && v > *p.Max {
		return 0, fmt.Errorf("%w: %v above maximum %v", ErrBallot, v, *p.Max)
	}
	return v, nil
}

func (t NumericRange) ValidateBallot(value, params types.BallotValue) error {
	_, err := t.parseBallot(value, params)
	return err
}

func (t NumericRange) Canonicalize(value, params types.BallotValue) ([]byte, error) {
	v, err := t.parseBallot(value, params)
	if err != nil {
		return nil, err
	}
	return []byte(formatCanonical(v)), nil
}

// NumericRangeResults is the aggregate shape of a numeric_range vote.
type NumericRangeResults struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

func (t NumericRange) Aggregate(values []types.BallotValue, params types.BallotValue) (any, error) {
	res := &NumericRangeResults{}
	for _, raw := range values {
		v, err := raw.AsNumber()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAggregate, err)
		}
		if res.Count == 0 {
			res.Min, res.Max = v, v
		} else {
			res.Min = math.Min(res.Min, v)
			res.Max = math.Max(res.Max, v)
		}
		res.Sum += v
		res.Count++
	}
	if res.Count > 0 {
		res.Average = res.Sum / float64(res.Count)
	}
	return res, nil
}

func (NumericRange) Schema() *Schema {
	return &Schema{
		ID:          TemplateNumericRange,
		Description: "finite number within an optional range",
		ValueType:   "number",
		Params: map[string]string{
			"min": "optional lower bound (finite number)",
			"max": "optional upper bound (finite number)",
		},
		Result: "{count, sum, average, min, max}",
	}
}

// formatCanonical renders a float64 the way ECMA-262 Number::toString
// does: plain decimal notation for 1e-6 <= |v| < 1e21 and exponent
// notation without zero-padded exponents outside that range. -0
// canonicalizes to "0".
func formatCanonical(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	// strconv zero-pads single-digit exponents ("1e-07"); strip it
	i := strings.IndexByte(s, 'e')
	mantissa, exp := s[:i], s[i+1:]
	sign := ""
	if exp[0] == '+' || exp[0] == '-' {
		sign, exp = string(exp[0]), exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}
