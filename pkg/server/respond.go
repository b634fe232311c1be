package server

import (
	"encoding/json"
	"net/http"

	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := wmerrors.HTTPStatus(err)
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", id, "err", err)
	} else {
		s.logger.Debug("request rejected", "id", id, "err", err)
	}
	respondJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Code:      string(wmerrors.GetCode(err)),
		Message:   wmerrors.UserMessage(err),
		RequestID: id,
	})
}
