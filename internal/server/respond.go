package server

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/network"
	"github.com/matzehuels/lineplanner/pkg/storage"
)

// errorResponse is the JSON body returned for any failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes v as an indented JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps err to an HTTP status and writes the error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	resp := errorResponse{Error: apperrors.UserMessage(err)}
	if code := apperrors.GetCode(err); code != "" {
		resp.Code = string(code)
	}
	writeJSON(w, status, resp)
}

// statusFor picks the HTTP status for an error, checking the network
// sentinels first and falling back to the structured error code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, network.ErrLineNotFound),
		errors.Is(err, network.ErrPointNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, network.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, network.ErrInconsistent):
		return http.StatusInternalServerError
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeLineNotFound,
		apperrors.ErrCodePointNotFound,
		apperrors.ErrCodeSnapshotNotFound,
		apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidName,
		apperrors.ErrCodeInvalidSnapshot:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case apperrors.ErrCodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody parses the request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
