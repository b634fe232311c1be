package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
	pkgio "github.com/matzehuels/wikimap/pkg/io"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := req.options()
	opts.Concurrency = s.concurrency
	opts.Timeout = s.timeout
	opts.Logger = s.logger.With("id", RequestID(r.Context()))

	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if res.Truncated {
		w.Header().Set("X-Wikimap-Truncated", "true")
	}
	respondJSON(w, http.StatusOK, res.Model)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	data, err := req.Model()
	if err != nil {
		s.respondError(w, r, wmerrors.Wrap(wmerrors.ErrCodeInvalidInput, err, "modelData is not a JSON string"))
		return
	}
	if _, err := pkgio.ReadJSON(bytes.NewReader(data)); err != nil {
		s.respondError(w, r, wmerrors.Wrap(wmerrors.ErrCodeInvalidFormat, err, "modelData is not a valid mind map"))
		return
	}
	if err := s.store.Save(r.Context(), req.Filename, data); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondJSON(w, wmerrors.HTTPStatus(err), map[string]any{
			"success": false,
			"error":   wmerrors.UserMessage(err),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"files": names})
}

func (s *Server) handleListLegacy(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

// decode reads a JSON body into v and validates it. On failure it writes
// the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, r, wmerrors.Wrap(wmerrors.ErrCodeInvalidInput, err, "malformed JSON body"))
		return false
	}
	if err := check(v); err != nil {
		s.respondError(w, r, err)
		return false
	}
	return true
}
