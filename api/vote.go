package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/types"
)

// createVote creates a new commit-reveal vote
// POST /api/v1/votes
func (a *API) createVote(w http.ResponseWriter, r *http.Request) {
	req := &CreateVoteRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	v, err := a.engine.CreateVote(r.Context(), &req.Config)
	if err != nil {
		fromEngineError(err).Write(w)
		return
	}
	log.Infow("new vote", "voteId", v.ID, "template", v.TemplateID, "creator", v.Creator)
	httpWriteJSON(w, &CreateVoteResponse{VoteID: v.ID, Success: true, Message: "vote created"})
}

// vote returns a single vote with its current phase
// GET /api/v1/votes/{voteId}
func (a *API) vote(w http.ResponseWriter, r *http.Request) {
	v, p, err := a.engine.Vote(r.Context(), chi.URLParam(r, VoteURLParam))
	if err != nil {
		fromEngineError(err).Write(w)
		return
	}
	httpWriteJSON(w, &VoteResponse{Vote: v, Phase: string(p)})
}

// listVotes returns a page of votes, optionally filtered by status and
// creator
// GET /api/v1/votes?page=1&page_size=20&status=...&creator=...
func (a *API) listVotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := 1
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			ErrInvalidPagination.Withf("page: %v", err).Write(w)
			return
		}
		page = n
	}
	pageSize := 0
	if s := q.Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			ErrInvalidPagination.Withf("page_size: %v", err).Write(w)
			return
		}
		pageSize = n
	}
	filter := &types.VoteFilter{Creator: q.Get("creator")}
	if s := q.Get("status"); s != "" {
		status := types.VoteStatus(s)
		if !status.Valid() {
			ErrInvalidInput.Withf("unknown status %q", s).Write(w)
			return
		}
		filter.Status = status
	}
	result, err := a.engine.ListVotes(r.Context(), filter, page, pageSize)
	if err != nil {
		fromEngineError(err).Write(w)
		return
	}
	httpWriteJSON(w, result)
}

// cancel aborts a vote that has not completed yet
// POST /api/v1/votes/{voteId}/cancel
func (a *API) cancel(w http.ResponseWriter, r *http.Request) {
	voteID := chi.URLParam(r, VoteURLParam)
	if err := a.engine.Cancel(r.Context(), voteID); err != nil {
		fromEngineError(err).Write(w)
		return
	}
	log.Infow("vote cancelled", "voteId", voteID)
	httpWriteOK(w)
}
