package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	zerrors "zigdoc/internal/errors"
)

// ErrorResponse represents an HTTP error response
type ErrorResponse struct {
	Error          string              `json:"error"`
	Code           zerrors.ErrorCode   `json:"code"`
	Details        any                 `json:"details,omitempty"`
	SuggestedFixes []zerrors.FixAction `json:"suggestedFixes,omitempty"`
}

// WriteError writes err as JSON with the status its code maps to.
func WriteError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{
		Error: err.Error(),
		Code:  zerrors.CodeOf(err),
	}

	var ze *zerrors.ZigdocError
	if stderrors.As(err, &ze) {
		resp.Details = ze.Details
		resp.SuggestedFixes = ze.SuggestedFixes
	}

	writeJSON(w, zerrors.HTTPStatus(err), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
