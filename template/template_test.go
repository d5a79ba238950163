package template

import (
	"encoding/json"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/commit-reveal/types"
)

func TestRegistry(t *testing.T) {
	c := qt.New(t)

	r := DefaultRegistry()
	c.Assert(r.IDs(), qt.DeepEquals, []string{
		TemplateMultipleChoice, TemplateNumericRange, TemplateRanking, TemplateYesNo,
	})

	tpl, ok := r.Get(TemplateYesNo)
	c.Assert(ok, qt.IsTrue)
	c.Assert(tpl.ID(), qt.Equals, TemplateYesNo)

	_, ok = r.Get("bogus")
	c.Assert(ok, qt.IsFalse)

	c.Assert(r.Register(YesNo{}), qt.IsNotNil) // duplicate

	schemas := r.Schemas()
	c.Assert(schemas, qt.HasLen, 4)
	c.Assert(schemas[0].ID, qt.Equals, TemplateMultipleChoice)
}

func TestYesNo(t *testing.T) {
	c := qt.New(t)
	tpl := YesNo{}

	c.Assert(tpl.ValidateParams(nil), qt.IsNil)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{}`)), qt.IsNil)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"x":1}`)), qt.ErrorIs, ErrParams)

	c.Assert(tpl.ValidateBallot(types.NewBallotValue(true), nil), qt.IsNil)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue("yes"), nil), qt.ErrorIs, ErrBallot)

	// frozen byte layout
	b, err := tpl.Canonicalize(types.NewBallotValue(true), nil)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte("yes"))
	b, err = tpl.Canonicalize(types.NewBallotValue(false), nil)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte("no"))

	res, err := tpl.Aggregate([]types.BallotValue{
		types.NewBallotValue(true),
		types.NewBallotValue(false),
		types.NewBallotValue(true),
	}, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.DeepEquals, &YesNoResults{Yes: 2, No: 1, Total: 3})
}

func TestMultipleChoice(t *testing.T) {
	c := qt.New(t)
	tpl := MultipleChoice{}
	params := types.BallotValue(`{"choices":["red","green","blue"]}`)

	c.Assert(tpl.ValidateParams(params), qt.IsNil)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"choices":[]}`)), qt.ErrorIs, ErrParams)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"choices":["a","a"]}`)), qt.ErrorIs, ErrParams)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"choices":[""]}`)), qt.ErrorIs, ErrParams)

	tooMany := make([]string, 21)
	for i := range tooMany {
		tooMany[i] = string(rune('a' + i))
	}
	c.Assert(tpl.ValidateParams(types.NewBallotValue(map[string]any{"choices": tooMany})), qt.ErrorIs, ErrParams)

	c.Assert(tpl.ValidateBallot(types.NewBallotValue("red"), params), qt.IsNil)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue("purple"), params), qt.ErrorIs, ErrBallot)

	b, err := tpl.Canonicalize(types.NewBallotValue("green"), params)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte("green"))

	res, err := tpl.Aggregate([]types.BallotValue{
		types.NewBallotValue("red"),
		types.NewBallotValue("red"),
		types.NewBallotValue("blue"),
	}, params)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.DeepEquals, &MultipleChoiceResults{
		Total:   3,
		Results: map[string]int{"red": 2, "green": 0, "blue": 1},
	})
}

func TestNumericRange(t *testing.T) {
	c := qt.New(t)
	tpl := NumericRange{}
	params := types.BallotValue(`{"min":0,"max":10}`)

	c.Assert(tpl.ValidateParams(nil), qt.IsNil)
	c.Assert(tpl.ValidateParams(params), qt.IsNil)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"min":5,"max":1}`)), qt.ErrorIs, ErrParams)

	c.Assert(tpl.ValidateBallot(types.NewBallotValue(3.14), params), qt.IsNil)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue(-1), params), qt.ErrorIs, ErrBallot)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue(11), params), qt.ErrorIs, ErrBallot)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue("3"), params), qt.ErrorIs, ErrBallot)

	// golden canonical bytes
	b, err := tpl.Canonicalize(types.NewBallotValue(3.14), params)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte{0x33, 0x2e, 0x31, 0x34})
	b, err = tpl.Canonicalize(types.NewBallotValue(1.0), params)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte("1"))

	res, err := tpl.Aggregate([]types.BallotValue{
		types.NewBallotValue(2.0),
		types.NewBallotValue(4.0),
		types.NewBallotValue(9.0),
	}, params)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.DeepEquals, &NumericRangeResults{
		Count: 3, Sum: 15, Average: 5, Min: 2, Max: 9,
	})

	res, err = tpl.Aggregate(nil, params)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.DeepEquals, &NumericRangeResults{})
}

func TestFormatCanonical(t *testing.T) {
	c := qt.New(t)

	for _, tc := range []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.0, "1"},
		{3.14, "3.14"},
		{-2.5, "-2.5"},
		{0.5, "0.5"},
		{100, "100"},
		{1e-6, "0.000001"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{-1.5e-8, "-1.5e-8"},
	} {
		c.Assert(formatCanonical(tc.in), qt.Equals, tc.want, qt.Commentf("input %v", tc.in))
	}

	// -0 canonicalizes to "0"
	c.Assert(formatCanonical(math.Copysign(0, -1)), qt.Equals, "0")
}

func TestRanking(t *testing.T) {
	c := qt.New(t)
	tpl := Ranking{}
	params := types.BallotValue(`{"options":["A","B","C"]}`)

	c.Assert(tpl.ValidateParams(params), qt.IsNil)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"options":[]}`)), qt.ErrorIs, ErrParams)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"options":["a,b"]}`)), qt.ErrorIs, ErrParams)
	c.Assert(tpl.ValidateParams(types.BallotValue(`{"options":["a","a"]}`)), qt.ErrorIs, ErrParams)

	c.Assert(tpl.ValidateBallot(types.NewBallotValue([]string{"B", "A", "C"}), params), qt.IsNil)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue([]string{"A", "B"}), params), qt.ErrorIs, ErrBallot)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue([]string{"A", "A", "C"}), params), qt.ErrorIs, ErrBallot)
	c.Assert(tpl.ValidateBallot(types.NewBallotValue([]string{"A", "B", "D"}), params), qt.ErrorIs, ErrBallot)

	b, err := tpl.Canonicalize(types.NewBallotValue([]string{"B", "A", "C"}), params)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte("B,A,C"))
}

func TestRankingBorda(t *testing.T) {
	c := qt.New(t)
	tpl := Ranking{}
	params := types.BallotValue(`{"options":["A","B","C"]}`)

	// A = 3+2+3 = 8; B = 2+3+1 = 6; C = 1+1+2 = 4
	res, err := tpl.Aggregate([]types.BallotValue{
		types.NewBallotValue([]string{"A", "B", "C"}),
		types.NewBallotValue([]string{"B", "A", "C"}),
		types.NewBallotValue([]string{"A", "C", "B"}),
	}, params)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.DeepEquals, &RankingResults{Ranking: []RankedOption{
		{Option: "A", Score: 8},
		{Option: "B", Score: 6},
		{Option: "C", Score: 4},
	}})
}

func TestRankingBordaTieBreak(t *testing.T) {
	c := qt.New(t)
	tpl := Ranking{}
	params := types.BallotValue(`{"options":["A","B"]}`)

	// one ballot each way: both score 3; B appears first across
	// ballots so it wins the tie
	res, err := tpl.Aggregate([]types.BallotValue{
		types.NewBallotValue([]string{"B", "A"}),
		types.NewBallotValue([]string{"A", "B"}),
	}, params)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.DeepEquals, &RankingResults{Ranking: []RankedOption{
		{Option: "B", Score: 3},
		{Option: "A", Score: 3},
	}})
}

func TestAggregateDeterminism(t *testing.T) {
	c := qt.New(t)

	// P6: aggregating the same input twice yields byte-equal JSON
	r := DefaultRegistry()
	params := types.BallotValue(`{"choices":["x","y"]}`)
	values := []types.BallotValue{
		types.NewBallotValue("x"),
		types.NewBallotValue("y"),
		types.NewBallotValue("x"),
	}
	tpl, _ := r.Get(TemplateMultipleChoice)
	first, err := tpl.Aggregate(values, params)
	c.Assert(err, qt.IsNil)
	second, err := tpl.Aggregate(values, params)
	c.Assert(err, qt.IsNil)
	fb, err := json.Marshal(first)
	c.Assert(err, qt.IsNil)
	sb, err := json.Marshal(second)
	c.Assert(err, qt.IsNil)
	c.Assert(string(fb), qt.Equals, string(sb))
}
