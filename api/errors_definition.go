//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// If you notice there's a gap, DON'T fill it in, that code was used in the past and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound   = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody      = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrVoteNotFound       = Error{Code: 40003, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("vote not found")}
	ErrInvalidInput       = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid input")}
	ErrUnknownTemplate    = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("unknown template")}
	ErrMalformedSalt      = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed salt")}
	ErrAlreadyCommitted   = Error{Code: 40007, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voter has already committed")}
	ErrAlreadyRevealed    = Error{Code: 40008, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voter has already revealed")}
	ErrPhaseClosed        = Error{Code: 40009, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("operation not allowed in current phase")}
	ErrVoteCancelled      = Error{Code: 40010, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("vote is cancelled")}
	ErrVoteCompleted      = Error{Code: 40011, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("vote is completed")}
	ErrNoCommitment       = Error{Code: 40012, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("no commitment found for voter")}
	ErrSaltMismatch       = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("salt does not match commitment")}
	ErrHashMismatch       = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("revealed ballot does not match commitment")}
	ErrInvalidBallot      = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid ballot")}
	ErrResultsNotReady    = Error{Code: 40016, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("results are not available yet")}
	ErrTemplateNotFound   = Error{Code: 40017, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("template not found")}
	ErrInvalidPagination  = Error{Code: 40018, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid pagination parameters")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrRequestTimeout             = Error{Code: 50003, HTTPstatus: http.StatusServiceUnavailable, Err: fmt.Errorf("request timed out")}
	ErrVerificationFailed         = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("verification failed")}
)
