package types

import (
	"encoding/json"
	"time"
)

// VoteStatus is the stored lifecycle state of a vote. It is an
// advisory cache advanced lazily on writes; the authoritative phase is
// always computed from wall-clock time and the vote deadlines.
type VoteStatus string

const (
	StatusCreated         VoteStatus = "created"
	StatusCommitmentPhase VoteStatus = "commitment_phase"
	StatusRevealPhase     VoteStatus = "reveal_phase"
	StatusCompleted       VoteStatus = "completed"
	StatusCancelled       VoteStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s VoteStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusCommitmentPhase, StatusRevealPhase, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Vote is a commit-reveal poll instance. Timestamps are set once at
// creation; only Status and Results are ever mutated afterwards.
type Vote struct {
	ID              string       `json:"id" cbor:"0,keyasint"`
	Title           string       `json:"title" cbor:"1,keyasint"`
	Description     string       `json:"description" cbor:"2,keyasint,omitempty"`
	TemplateID      string       `json:"template_id" cbor:"3,keyasint"`
	TemplateParams  BallotValue  `json:"template_params,omitempty" cbor:"4,keyasint,omitempty"`
	Creator         string       `json:"creator" cbor:"5,keyasint"`
	CreatedAt       time.Time    `json:"created_at" cbor:"6,keyasint"`
	CommitmentStart time.Time    `json:"commitment_start" cbor:"7,keyasint"`
	CommitmentEnd   time.Time    `json:"commitment_end" cbor:"8,keyasint"`
	RevealStart     time.Time    `json:"reveal_start" cbor:"9,keyasint"`
	RevealEnd       time.Time    `json:"reveal_end" cbor:"10,keyasint"`
	Status          VoteStatus   `json:"status" cbor:"11,keyasint"`
	Results         *VoteResults `json:"results,omitempty" cbor:"12,keyasint,omitempty"`
}

func (v *Vote) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Commitment is one voter's hiding promise for a vote. At most one
// commitment exists per (VoteID, Voter).
type Commitment struct {
	ID        string    `json:"id" cbor:"0,keyasint"`
	VoteID    string    `json:"vote_id" cbor:"1,keyasint"`
	Voter     string    `json:"voter" cbor:"2,keyasint"`
	Hash      string    `json:"commitment_hash" cbor:"3,keyasint"`
	Algorithm string    `json:"algorithm" cbor:"4,keyasint"`
	Salt      HexBytes  `json:"salt" cbor:"5,keyasint"`
	CreatedAt time.Time `json:"created_at" cbor:"6,keyasint"`
}

// Reveal is one voter's disclosed ballot. A reveal exists only if a
// matching commitment exists and reproduces its hash.
type Reveal struct {
	ID        string      `json:"id" cbor:"0,keyasint"`
	VoteID    string      `json:"vote_id" cbor:"1,keyasint"`
	Voter     string      `json:"voter" cbor:"2,keyasint"`
	Value     BallotValue `json:"value" cbor:"3,keyasint"`
	Salt      HexBytes    `json:"salt" cbor:"4,keyasint"`
	CreatedAt time.Time   `json:"created_at" cbor:"5,keyasint"`
}

// VoteResults is the aggregate output of a completed vote. The shape
// of Results is determined by the vote template.
type VoteResults struct {
	VoteID       string      `json:"vote_id" cbor:"0,keyasint"`
	TotalVotes   int         `json:"total_votes" cbor:"1,keyasint"`
	Results      BallotValue `json:"results" cbor:"2,keyasint"`
	CalculatedAt time.Time   `json:"calculated_at" cbor:"3,keyasint"`
}

// VoteConfig is the caller-supplied configuration to create a vote.
type VoteConfig struct {
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	TemplateID         string      `json:"template_id"`
	TemplateParams     BallotValue `json:"template_params,omitempty"`
	Creator            string      `json:"creator"`
	CommitmentDuration Duration    `json:"commitment_duration"`
	RevealDuration     Duration    `json:"reveal_duration"`
}

// VoteFilter selects votes on listing. Zero values match everything.
type VoteFilter struct {
	Status  VoteStatus
	Creator string
}

// VotePage is one page of a vote listing.
type VotePage struct {
	Items      []*Vote `json:"items"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
