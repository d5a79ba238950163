package verifier

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/commit-reveal/crypto/commitment"
	"github.com/vocdoni/commit-reveal/engine"
	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/template"
	"github.com/vocdoni/commit-reveal/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

type fixture struct {
	store    *storage.Storage
	engine   *engine.Engine
	verifier *Verifier
	clock    *fakeClock
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	st := storage.New(memdb.New())
	t.Cleanup(st.Close)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	reg := template.DefaultRegistry()
	return &fixture{
		store:    st,
		engine:   engine.New(st, reg, engine.WithTimeFunc(clock.Now)),
		verifier: New(st, reg, opts...),
		clock:    clock,
	}
}

// seedVote runs the full protocol for a yes/no vote. Voters in skip
// commit but never reveal.
func (f *fixture) seedVote(t *testing.T, ballots map[string]bool, skip map[string]bool) string {
	t.Helper()
	c := qt.New(t)
	ctx := context.Background()

	v, err := f.engine.CreateVote(ctx, &types.VoteConfig{
		Title:              "verify me",
		Description:        "a vote exercised by the verifier tests",
		TemplateID:         template.TemplateYesNo,
		Creator:            "alice",
		CommitmentDuration: types.Duration(time.Hour),
		RevealDuration:     types.Duration(time.Hour),
	})
	c.Assert(err, qt.IsNil)

	for voter, value := range ballots {
		canonical := "no"
		if value {
			canonical = "yes"
		}
		salt := []byte("salt-" + voter)
		hash := commitment.Commit([]byte(canonical), salt)
		_, err := f.engine.Commit(ctx, v.ID, voter, hash, salt, "")
		c.Assert(err, qt.IsNil)
	}

	f.clock.Advance(90 * time.Minute)
	for voter, value := range ballots {
		if skip[voter] {
			continue
		}
		_, err := f.engine.Reveal(ctx, v.ID, voter, types.NewBallotValue(value), []byte("salt-"+voter))
		c.Assert(err, qt.IsNil)
	}

	f.clock.Advance(time.Hour)
	_, err = f.engine.Results(ctx, v.ID)
	c.Assert(err, qt.IsNil)
	return v.ID
}

func TestVerifyCleanVote(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	id := f.seedVote(t, map[string]bool{"A": true, "B": false, "C": true}, nil)

	report, err := f.verifier.VerifyVote(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(report.TotalCommitments, qt.Equals, 3)
	c.Assert(report.VerifiedCommitments, qt.Equals, 3)
	c.Assert(report.FailedCommitments, qt.Equals, 0)
	c.Assert(report.Issues, qt.HasLen, 0)
	c.Assert(report.RecomputedTotalVotes, qt.Equals, 3)
	c.Assert(string(report.RecomputedResults), qt.Equals, `{"yes":2,"no":1,"total":3}`)
	c.Assert(report.ResultsMatch, qt.Not(qt.IsNil))
	c.Assert(*report.ResultsMatch, qt.IsTrue)
	c.Assert(report.Valid, qt.IsTrue)

	// replaying the same artifacts later yields a byte-equal report
	f.clock.Advance(24 * time.Hour)
	again, err := f.verifier.VerifyVote(ctx, id)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, report)
	first, err := json.Marshal(report)
	c.Assert(err, qt.IsNil)
	second, err := json.Marshal(again)
	c.Assert(err, qt.IsNil)
	c.Assert(string(second), qt.Equals, string(first))
}

func TestVerifyMissingReveal(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)

	id := f.seedVote(t,
		map[string]bool{"A": true, "B": false, "C": true},
		map[string]bool{"B": true})

	report, err := f.verifier.VerifyVote(context.Background(), id)
	c.Assert(err, qt.IsNil)
	c.Assert(report.TotalCommitments, qt.Equals, 3)
	c.Assert(report.VerifiedCommitments, qt.Equals, 2)
	c.Assert(report.FailedCommitments, qt.Equals, 1)
	c.Assert(report.Issues, qt.DeepEquals, []string{"missing reveal for voter B"})
	c.Assert(report.RecomputedTotalVotes, qt.Equals, 2)
	c.Assert(report.ResultsMatch, qt.Not(qt.IsNil))
	c.Assert(*report.ResultsMatch, qt.IsTrue)
	c.Assert(report.Valid, qt.IsFalse)
}

// TestVerifyTamperedCommitment seeds the store directly with a
// commitment whose hash does not match the stored reveal, the situation
// the engine would never produce on its own.
func TestVerifyTamperedCommitment(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	now := f.clock.Now()

	vote := &types.Vote{
		ID:              "tampered",
		Title:           "tampered vote",
		Description:     "hand-seeded artifacts",
		TemplateID:      template.TemplateYesNo,
		Creator:         "mallory",
		CreatedAt:       now,
		CommitmentStart: now,
		CommitmentEnd:   now.Add(time.Hour),
		RevealStart:     now.Add(time.Hour),
		RevealEnd:       now.Add(2 * time.Hour),
		Status:          types.StatusRevealPhase,
	}
	c.Assert(f.store.AddVote(vote), qt.IsNil)
	c.Assert(f.store.AddCommitment(&types.Commitment{
		ID:        "c1",
		VoteID:    vote.ID,
		Voter:     "A",
		Hash:      commitment.Commit([]byte("no"), []byte("other-salt")),
		Algorithm: commitment.AlgorithmSHA256,
		Salt:      []byte("other-salt"),
		CreatedAt: now,
	}), qt.IsNil)
	c.Assert(f.store.AddReveal(&types.Reveal{
		ID:        "r1",
		VoteID:    vote.ID,
		Voter:     "A",
		Value:     types.NewBallotValue(true),
		Salt:      []byte("other-salt"),
		CreatedAt: now.Add(time.Hour),
	}), qt.IsNil)

	report, err := f.verifier.VerifyVote(context.Background(), vote.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(report.VerifiedCommitments, qt.Equals, 0)
	c.Assert(report.FailedCommitments, qt.Equals, 1)
	c.Assert(report.Issues, qt.DeepEquals, []string{"commitment mismatch for voter A"})
	// no published results yet, so there is nothing to compare
	c.Assert(report.ResultsMatch, qt.IsNil)
	c.Assert(report.Valid, qt.IsFalse)
}

// TestVerifyRealFailures covers a round where one voter never reveals
// and another attempts a reveal that the engine rejects, so it is
// never stored either. Both surface as missing reveals.
func TestVerifyRealFailures(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.engine.CreateVote(ctx, &types.VoteConfig{
		Title:              "five voters",
		Description:        "one silent voter, one lying voter",
		TemplateID:         template.TemplateYesNo,
		Creator:            "alice",
		CommitmentDuration: types.Duration(time.Hour),
		RevealDuration:     types.Duration(time.Hour),
	})
	c.Assert(err, qt.IsNil)

	ballots := map[string]bool{"v1": true, "v2": false, "v3": true, "v4": true, "v5": false}
	for voter, value := range ballots {
		canonical := "no"
		if value {
			canonical = "yes"
		}
		salt := []byte("salt-" + voter)
		_, err := f.engine.Commit(ctx, v.ID, voter, commitment.Commit([]byte(canonical), salt), salt, "")
		c.Assert(err, qt.IsNil)
	}

	f.clock.Advance(90 * time.Minute)
	// v3 stays silent; v4 tries to reveal a different ballot than
	// committed, which the engine rejects
	_, err = f.engine.Reveal(ctx, v.ID, "v4", types.NewBallotValue(false), []byte("salt-v4"))
	c.Assert(err, qt.ErrorIs, engine.ErrHashMismatch)
	for _, voter := range []string{"v1", "v2", "v5"} {
		_, err := f.engine.Reveal(ctx, v.ID, voter, types.NewBallotValue(ballots[voter]), []byte("salt-"+voter))
		c.Assert(err, qt.IsNil)
	}

	f.clock.Advance(time.Hour)
	_, err = f.engine.Results(ctx, v.ID)
	c.Assert(err, qt.IsNil)

	report, err := f.verifier.VerifyVote(ctx, v.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(report.TotalCommitments, qt.Equals, 5)
	c.Assert(report.VerifiedCommitments, qt.Equals, 3)
	c.Assert(report.FailedCommitments, qt.Equals, 2)
	c.Assert(report.Issues, qt.DeepEquals, []string{
		"missing reveal for voter v3",
		"missing reveal for voter v4",
	})
	c.Assert(report.RecomputedTotalVotes, qt.Equals, 3)
	c.Assert(report.ResultsMatch, qt.Not(qt.IsNil))
	c.Assert(*report.ResultsMatch, qt.IsTrue)
	c.Assert(report.Valid, qt.IsFalse)
}

func TestVerifyUnknownVote(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	_, err := f.verifier.VerifyVote(context.Background(), "missing")
	c.Assert(err, qt.ErrorIs, storage.ErrNotFound)
}

func TestSignedReport(t *testing.T) {
	c := qt.New(t)
	key, err := ethcrypto.GenerateKey()
	c.Assert(err, qt.IsNil)
	f := newFixture(t, WithSigningKey(key))

	id := f.seedVote(t, map[string]bool{"A": true}, nil)
	report, err := f.verifier.VerifyVote(context.Background(), id)
	c.Assert(err, qt.IsNil)
	c.Assert(report.Signer, qt.Equals, ethcrypto.PubkeyToAddress(key.PublicKey).Hex())
	c.Assert(len(report.Signature), qt.Equals, 65)

	ok, err := VerifySignature(report)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	// any field change breaks the signature
	report.VerifiedCommitments++
	ok, err = VerifySignature(report)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	unsigned := &Report{VoteID: id}
	_, err = VerifySignature(unsigned)
	c.Assert(err, qt.IsNotNil)
}
