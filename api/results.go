package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/storage"
)

// results returns the aggregated outcome of a vote, computing and
// caching it on first access after the reveal phase ends
// GET /api/v1/votes/{voteId}/results
func (a *API) results(w http.ResponseWriter, r *http.Request) {
	voteID := chi.URLParam(r, VoteURLParam)
	res, err := a.engine.Results(r.Context(), voteID)
	if err != nil {
		fromEngineError(err).Write(w)
		return
	}
	httpWriteJSON(w, res)
}

// verify replays the full commit-reveal protocol for a vote and
// returns the verification report
// GET /api/v1/votes/{voteId}/verify
func (a *API) verify(w http.ResponseWriter, r *http.Request) {
	voteID := chi.URLParam(r, VoteURLParam)
	report, err := a.verifier.VerifyVote(r.Context(), voteID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrVoteNotFound.Write(w)
			return
		}
		ErrVerificationFailed.WithErr(err).Write(w)
		return
	}
	log.Infow("vote verified", "voteId", voteID, "valid", report.Valid)
	httpWriteJSON(w, report)
}
