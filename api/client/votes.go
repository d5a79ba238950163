package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vocdoni/commit-reveal/api"
	"github.com/vocdoni/commit-reveal/template"
	"github.com/vocdoni/commit-reveal/types"
	"github.com/vocdoni/commit-reveal/verifier"
)

// apiError is the wire form of an API error response.
type apiError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// call performs a request and decodes the JSON response into out, or
// surfaces the API error message on a non-200 status.
func (c *HTTPclient) call(method string, jsonBody, out any, params []string, urlPath ...string) error {
	data, status, err := c.Request(method, jsonBody, params, urlPath...)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		apiErr := &apiError{}
		if err := json.Unmarshal(data, apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (code %d)", apiErr.Error, apiErr.Code)
		}
		return fmt.Errorf("%s: %d (%s)", errCodeNot200, status, data)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// CreateVote creates a new vote and returns its identifier.
func (c *HTTPclient) CreateVote(cfg *types.VoteConfig) (string, error) {
	resp := &api.CreateVoteResponse{}
	req := &api.CreateVoteRequest{Config: *cfg}
	if err := c.call(HTTPPOST, req, resp, nil, api.VotesEndpoint); err != nil {
		return "", err
	}
	return resp.VoteID, nil
}

// Vote retrieves a vote with its current phase.
func (c *HTTPclient) Vote(voteID string) (*api.VoteResponse, error) {
	resp := &api.VoteResponse{}
	if err := c.call(HTTPGET, nil, resp, nil, api.VotesEndpoint, voteID); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListVotes retrieves one page of votes. Zero page or pageSize use the
// server defaults, empty status and creator match everything.
func (c *HTTPclient) ListVotes(page, pageSize int, status, creator string) (*types.VotePage, error) {
	var params []string
	if page > 0 {
		params = append(params, "page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params = append(params, "page_size", strconv.Itoa(pageSize))
	}
	if status != "" {
		params = append(params, "status", status)
	}
	if creator != "" {
		params = append(params, "creator", creator)
	}
	resp := &types.VotePage{}
	if err := c.call(HTTPGET, nil, resp, params, api.VotesEndpoint); err != nil {
		return nil, err
	}
	return resp, nil
}

// Commit submits a ballot commitment and returns the commitment ID.
func (c *HTTPclient) Commit(voteID string, req *api.CommitRequest) (string, error) {
	resp := &api.CommitResponse{}
	if err := c.call(HTTPPOST, req, resp, nil, api.VotesEndpoint, voteID, "commit"); err != nil {
		return "", err
	}
	return resp.CommitmentID, nil
}

// Reveal opens a committed ballot and returns the reveal ID.
func (c *HTTPclient) Reveal(voteID string, req *api.RevealRequest) (string, error) {
	resp := &api.RevealResponse{}
	if err := c.call(HTTPPOST, req, resp, nil, api.VotesEndpoint, voteID, "reveal"); err != nil {
		return "", err
	}
	return resp.RevealID, nil
}

// Results retrieves the aggregated outcome of a vote.
func (c *HTTPclient) Results(voteID string) (*types.VoteResults, error) {
	resp := &types.VoteResults{}
	if err := c.call(HTTPGET, nil, resp, nil, api.VotesEndpoint, voteID, "results"); err != nil {
		return nil, err
	}
	return resp, nil
}

// Verify retrieves the verification report of a vote.
func (c *HTTPclient) Verify(voteID string) (*verifier.Report, error) {
	resp := &verifier.Report{}
	if err := c.call(HTTPGET, nil, resp, nil, api.VotesEndpoint, voteID, "verify"); err != nil {
		return nil, err
	}
	return resp, nil
}

// Cancel aborts a vote.
func (c *HTTPclient) Cancel(voteID string) error {
	return c.call(HTTPPOST, nil, nil, nil, api.VotesEndpoint, voteID, "cancel")
}

// Templates lists the available ballot template identifiers.
func (c *HTTPclient) Templates() ([]string, error) {
	resp := &api.TemplateList{}
	if err := c.call(HTTPGET, nil, resp, nil, api.TemplatesEndpoint); err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

// Template retrieves the schema of a single ballot template.
func (c *HTTPclient) Template(id string) (*template.Schema, error) {
	resp := &template.Schema{}
	if err := c.call(HTTPGET, nil, resp, nil, api.TemplatesEndpoint, id); err != nil {
		return nil, err
	}
	return resp, nil
}

// Health retrieves the service health report.
func (c *HTTPclient) Health() (*api.HealthResponse, error) {
	resp := &api.HealthResponse{}
	if err := c.call(HTTPGET, nil, resp, nil, api.HealthEndpoint); err != nil {
		return nil, err
	}
	return resp, nil
}
