package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vocdoni/commit-reveal/engine"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/storage"
)

// Error is used by handler functions to wrap errors, assigning a unique error code
// and also specifying which HTTP Status should be used.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON returns a JSON containing Err.Error() and Code. Field HTTPstatus is ignored.
//
// Example output: {"error":"vote not found","code":40003}
func (e Error) MarshalJSON() ([]byte, error) {
	// This anon struct is needed to actually include the error string,
	// since it wouldn't be marshaled otherwise. (json.Marshal doesn't call Err.Error())
	return json.Marshal(
		struct {
			Err  string `json:"error"`
			Code int    `json:"code"`
		}{
			Err:  e.Err.Error(),
			Code: e.Code,
		})
}

// Error returns the message contained inside the Error
func (e Error) Error() string {
	return e.Err.Error()
}

// Write serializes a JSON msg using Error.Err and Error.Code
// and writes it with the Error's HTTP status.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	if log.Level() == log.LogLevelDebug {
		log.Debugw("API error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	}
	// set the content type to JSON
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of Error with the Sprintf formatted string appended at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of Error with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of Error with err.Error() appended at the end of e.Err
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// fromEngineError translates engine and storage sentinel errors into
// the API error they map to. Unknown errors become a generic 500.
func fromEngineError(err error) Error {
	switch {
	case errors.Is(err, engine.ErrVoteNotFound):
		return ErrVoteNotFound
	case errors.Is(err, engine.ErrTemplateUnknown):
		return ErrUnknownTemplate.WithErr(err)
	case errors.Is(err, engine.ErrInvalidConfig):
		return ErrInvalidInput.WithErr(err)
	case errors.Is(err, engine.ErrCommitClosed), errors.Is(err, engine.ErrRevealClosed):
		return ErrPhaseClosed.WithErr(err)
	case errors.Is(err, engine.ErrResultsNotReady):
		return ErrResultsNotReady.WithErr(err)
	case errors.Is(err, engine.ErrVoteCancelled):
		return ErrVoteCancelled
	case errors.Is(err, engine.ErrVoteCompleted):
		return ErrVoteCompleted
	case errors.Is(err, engine.ErrNoCommitment):
		return ErrNoCommitment
	case errors.Is(err, engine.ErrSaltMismatch):
		return ErrSaltMismatch
	case errors.Is(err, engine.ErrHashMismatch):
		return ErrHashMismatch
	case errors.Is(err, engine.ErrBallotInvalid):
		return ErrInvalidBallot.WithErr(err)
	case errors.Is(err, engine.ErrTimeout):
		return ErrRequestTimeout
	case errors.Is(err, storage.ErrAlreadyCommitted):
		return ErrAlreadyCommitted
	case errors.Is(err, storage.ErrAlreadyRevealed):
		return ErrAlreadyRevealed
	case errors.Is(err, storage.ErrNotFound):
		return ErrResourceNotFound
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
