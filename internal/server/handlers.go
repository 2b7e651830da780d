package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/beamsplit/pkg/buildinfo"
	"github.com/matzehuels/beamsplit/pkg/errors"
	dagio "github.com/matzehuels/beamsplit/pkg/io"
	"github.com/matzehuels/beamsplit/pkg/pipeline"
)

// solveRequest is the JSON request body.
type solveRequest struct {
	Grid        string `json:"grid"`
	Refresh     bool   `json:"refresh,omitempty"`
	Unreachable string `json:"unreachable,omitempty"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Solve(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.runner.Graph(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := dagio.WriteJSON(d, w); err != nil {
		s.logger.Error("write graph", "err", err)
	}
}

// readOptions accepts raw grid text, or a JSON body when the content type
// says so. For raw bodies, refresh and unreachable come from the query.
func (s *Server) readOptions(r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, errors.MaxGridBytes+1))
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}

	opts := pipeline.Options{Unreachable: s.unreachable}
	if isJSON(r.Header.Get("Content-Type")) {
		var req solveRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
		}
		opts.Grid = req.Grid
		opts.Refresh = req.Refresh
		if req.Unreachable != "" {
			opts.Unreachable = req.Unreachable
		}
		return opts, nil
	}

	opts.Grid = string(body)
	q := r.URL.Query()
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean")
		}
		opts.Refresh = refresh
	}
	if v := q.Get("unreachable"); v != "" {
		opts.Unreachable = v
	}
	return opts, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	if errors.IsInputError(err) {
		status = http.StatusBadRequest
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
