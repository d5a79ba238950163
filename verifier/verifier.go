// Package verifier replays the commit-reveal protocol for a vote from
// the stored artifacts and produces an auditable report. Anyone holding
// the commitments, reveals and published results can run the same
// checks and reach the same verdict.
package verifier

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/commit-reveal/crypto/commitment"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/template"
	"github.com/vocdoni/commit-reveal/types"
)

// Report is the outcome of replaying a vote. Issues holds one line per
// problem found, in voter order. ResultsMatch is nil when the vote has
// no published results to compare against.
type Report struct {
	VoteID               string            `json:"vote_id"`
	TemplateID           string            `json:"template_id"`
	Status               types.VoteStatus  `json:"status"`
	TotalCommitments     int               `json:"total_commitments"`
	VerifiedCommitments  int               `json:"verified_commitments"`
	FailedCommitments    int               `json:"failed_commitments"`
	Issues               []string          `json:"issues"`
	RecomputedTotalVotes int               `json:"recomputed_total_votes"`
	RecomputedResults    types.BallotValue `json:"recomputed_results,omitempty"`
	StoredResults        types.BallotValue `json:"stored_results,omitempty"`
	ResultsMatch         *bool             `json:"results_match,omitempty"`
	Valid                bool              `json:"is_valid"`
	Signer               string            `json:"signer,omitempty"`
	Signature            types.HexBytes    `json:"signature,omitempty"`
}

// Verifier recomputes votes from storage. The signing key is optional;
// when set, reports carry a secp256k1 signature over their JSON form.
type Verifier struct {
	store     *storage.Storage
	templates *template.Registry
	signKey   *ecdsa.PrivateKey
}

type Option func(*Verifier)

// WithSigningKey makes the verifier sign every report it produces.
func WithSigningKey(key *ecdsa.PrivateKey) Option {
	return func(v *Verifier) { v.signKey = key }
}

func New(store *storage.Storage, templates *template.Registry, opts ...Option) *Verifier {
	v := &Verifier{
		store:     store,
		templates: templates,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyVote replays every commitment of the vote against its reveal
// and recomputes the aggregate from the reveals that verify. The report
// depends only on the stored artifacts, so independent runs over the
// same store produce byte-equal reports.
func (vf *Verifier) VerifyVote(ctx context.Context, voteID string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vote, err := vf.store.Vote(voteID)
	if err != nil {
		return nil, fmt.Errorf("load vote %s: %w", voteID, err)
	}
	tpl, ok := vf.templates.Get(vote.TemplateID)
	if !ok {
		return nil, fmt.Errorf("unknown template %q", vote.TemplateID)
	}
	commitments, err := vf.store.ListCommitments(voteID)
	if err != nil {
		return nil, fmt.Errorf("list commitments: %w", err)
	}
	reveals, err := vf.store.ListReveals(voteID)
	if err != nil {
		return nil, fmt.Errorf("list reveals: %w", err)
	}
	revealsByVoter := make(map[string]*types.Reveal, len(reveals))
	for _, r := range reveals {
		revealsByVoter[r.Voter] = r
	}

	report := &Report{
		VoteID:           voteID,
		TemplateID:       vote.TemplateID,
		Status:           vote.Status,
		TotalCommitments: len(commitments),
		Issues:           []string{},
	}

	verified := make([]types.BallotValue, 0, len(commitments))
	for _, cm := range commitments {
		reveal, ok := revealsByVoter[cm.Voter]
		if !ok {
			report.FailedCommitments++
			report.Issues = append(report.Issues,
				fmt.Sprintf("missing reveal for voter %s", cm.Voter))
			continue
		}
		canonical, err := vf.canonicalize(tpl, reveal.Value, vote.TemplateParams)
		if err != nil {
			report.FailedCommitments++
			report.Issues = append(report.Issues,
				fmt.Sprintf("commitment mismatch for voter %s", cm.Voter))
			continue
		}
		if !commitment.VerifyWith(cm.Algorithm, canonical, reveal.Salt, cm.Hash) {
			report.FailedCommitments++
			report.Issues = append(report.Issues,
				fmt.Sprintf("commitment mismatch for voter %s", cm.Voter))
			continue
		}
		report.VerifiedCommitments++
		verified = append(verified, reveal.Value)
	}

	report.RecomputedTotalVotes = len(verified)
	aggregated, err := tpl.Aggregate(verified, vote.TemplateParams)
	if err != nil {
		return nil, fmt.Errorf("aggregate verified ballots: %w", err)
	}
	raw, err := json.Marshal(aggregated)
	if err != nil {
		return nil, fmt.Errorf("encode recomputed results: %w", err)
	}
	report.RecomputedResults = types.BallotValue(raw)

	if vote.Results != nil {
		report.StoredResults = vote.Results.Results
		match := string(report.StoredResults) == string(report.RecomputedResults) &&
			vote.Results.TotalVotes == report.RecomputedTotalVotes
		report.ResultsMatch = &match
		if !match {
			report.Issues = append(report.Issues, "stored results do not match recomputed results")
		}
	}
	report.Valid = len(report.Issues) == 0

	if vf.signKey != nil {
		if err := vf.sign(report); err != nil {
			return nil, fmt.Errorf("sign report: %w", err)
		}
	}
	log.Debugw("vote verified",
		"voteId", voteID,
		"commitments", report.TotalCommitments,
		"verified", report.VerifiedCommitments,
		"failed", report.FailedCommitments,
		"valid", report.Valid)
	return report, nil
}

// canonicalize validates the revealed ballot before producing its
// canonical bytes, so ballots that no longer satisfy the template are
// reported as mismatches rather than replayed blindly.
func (vf *Verifier) canonicalize(tpl template.Template, value types.BallotValue,
	params types.BallotValue) ([]byte, error) {
	if err := tpl.ValidateBallot(value, params); err != nil {
		return nil, err
	}
	return tpl.Canonicalize(value, params)
}

// sign fills Signer and Signature. The signed payload is the report
// JSON with both fields empty, hashed with Keccak256.
func (vf *Verifier) sign(report *Report) error {
	report.Signer = ""
	report.Signature = nil
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	sig, err := ethcrypto.Sign(ethcrypto.Keccak256(payload), vf.signKey)
	if err != nil {
		return err
	}
	report.Signer = ethcrypto.PubkeyToAddress(vf.signKey.PublicKey).Hex()
	report.Signature = sig
	return nil
}

// VerifySignature checks a signed report against its embedded signer
// address. Reports without a signature fail verification.
func VerifySignature(report *Report) (bool, error) {
	if len(report.Signature) == 0 || report.Signer == "" {
		return false, fmt.Errorf("report is not signed")
	}
	clone := *report
	clone.Signer = ""
	clone.Signature = nil
	payload, err := json.Marshal(&clone)
	if err != nil {
		return false, err
	}
	pubkey, err := ethcrypto.SigToPub(ethcrypto.Keccak256(payload), report.Signature)
	if err != nil {
		return false, err
	}
	return ethcrypto.PubkeyToAddress(*pubkey).Hex() == report.Signer, nil
}
