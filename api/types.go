package api

import (
	"time"

	"github.com/vocdoni/commit-reveal/types"
)

// CreateVoteRequest is the body of the vote creation request.
type CreateVoteRequest struct {
	Config types.VoteConfig `json:"config"`
}

// CreateVoteResponse is the response to a vote creation request.
type CreateVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// VoteResponse is a stored vote plus its phase derived from the clock
// at request time.
type VoteResponse struct {
	*types.Vote
	Phase string `json:"phase"`
}

// CommitRequest is the body of a ballot commitment request. Salt is
// hex encoded and must decode to the salt used to compute the hash.
type CommitRequest struct {
	Voter          string `json:"voter"`
	CommitmentHash string `json:"commitment_hash"`
	Salt           string `json:"salt"`
	Algorithm      string `json:"algorithm,omitempty"`
}

// CommitResponse is the response to a commitment request.
type CommitResponse struct {
	CommitmentID string `json:"commitment_id"`
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
}

// RevealRequest is the body of a ballot reveal request. Value is the
// template-specific ballot and Salt the hex encoded salt of the
// original commitment.
type RevealRequest struct {
	Voter string            `json:"voter"`
	Value types.BallotValue `json:"value"`
	Salt  string            `json:"salt"`
}

// RevealResponse is the response to a reveal request.
type RevealResponse struct {
	RevealID string `json:"reveal_id"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
}

// TemplateList is the response to a template listing request.
type TemplateList struct {
	Templates []string `json:"templates"`
}

// HealthResponse is the response to a health check request.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
