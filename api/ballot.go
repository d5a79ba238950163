package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/util"
)

// decodeSalt parses the wire form of a salt, a non-empty hex string
// with an optional 0x prefix.
func decodeSalt(s string) ([]byte, error) {
	return hex.DecodeString(util.TrimHex(s))
}

// commit registers a ballot commitment for a voter
// POST /api/v1/votes/{voteId}/commit
func (a *API) commit(w http.ResponseWriter, r *http.Request) {
	req := &CommitRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	salt, err := decodeSalt(req.Salt)
	if err != nil {
		ErrMalformedSalt.WithErr(err).Write(w)
		return
	}
	voteID := chi.URLParam(r, VoteURLParam)
	id, err := a.engine.Commit(r.Context(), voteID, req.Voter, req.CommitmentHash, salt, req.Algorithm)
	if err != nil {
		fromEngineError(err).Write(w)
		return
	}
	log.Infow("ballot committed", "voteId", voteID, "voter", req.Voter)
	httpWriteJSON(w, &CommitResponse{CommitmentID: id, Success: true, Message: "commitment accepted"})
}

// reveal opens a previously committed ballot
// POST /api/v1/votes/{voteId}/reveal
func (a *API) reveal(w http.ResponseWriter, r *http.Request) {
	req := &RevealRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	salt, err := decodeSalt(req.Salt)
	if err != nil {
		ErrMalformedSalt.WithErr(err).Write(w)
		return
	}
	voteID := chi.URLParam(r, VoteURLParam)
	id, err := a.engine.Reveal(r.Context(), voteID, req.Voter, req.Value, salt)
	if err != nil {
		fromEngineError(err).Write(w)
		return
	}
	log.Infow("ballot revealed", "voteId", voteID, "voter", req.Voter)
	httpWriteJSON(w, &RevealResponse{RevealID: id, Success: true, Message: "reveal accepted"})
}
