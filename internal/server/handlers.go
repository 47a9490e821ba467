package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matzehuels/aostar/pkg/andor"
	"github.com/matzehuels/aostar/pkg/buildinfo"
	"github.com/matzehuels/aostar/pkg/errors"
	aoio "github.com/matzehuels/aostar/pkg/io"
	"github.com/matzehuels/aostar/pkg/pipeline"
)

type searchRequest struct {
	Graph    json.RawMessage `json:"graph"`
	Start    string          `json:"start,omitempty"`
	NoMemo   bool            `json:"no_memo,omitempty"`
	MaxDepth int             `json:"max_depth,omitempty"`
	DOT      bool            `json:"dot,omitempty"` // Include a Graphviz rendering of the solution
}

type searchStats struct {
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	Evaluated  int     `json:"evaluated"`
	DurationMS float64 `json:"duration_ms"`
}

type searchResponse struct {
	pipeline.Report
	Stats     searchStats `json:"stats"`
	DOT       string      `json:"dot,omitempty"`
	RequestID string      `json:"request_id"`
}

type validateResponse struct {
	Valid     bool      `json:"valid"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	Start     string    `json:"start,omitempty"`
	Sources   []string  `json:"sources,omitempty"`
	Sinks     []string  `json:"sinks,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	RequestID string    `json:"request_id"`
}

type apiError struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error     apiError `json:"error"`
	RequestID string   `json:"request_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Graph) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "graph is required"))
		return
	}
	if req.Start != "" {
		if err := errors.ValidateNodeID(req.Start); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.MaxDepth < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "max_depth must not be negative"))
		return
	}

	g, err := s.readGraph(req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Start:     req.Start,
		NoMemo:    req.NoMemo,
		MaxDepth:  req.MaxDepth,
		MaxVisits: s.cfg.MaxVisits,
		Logger:    s.logger.With("request_id", RequestIDFromContext(r.Context())),
	}
	if opts.Start == "" && aoio.Start(g) == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "start is required"))
		return
	}

	t0 := time.Now()
	res, err := s.runner.Search(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	elapsed := time.Since(t0)

	resp := searchResponse{
		Report: pipeline.NewReport(res),
		Stats: searchStats{
			Nodes:      g.NodeCount(),
			Edges:      g.EdgeCount(),
			Evaluated:  res.Costs.Len(),
			DurationMS: float64(elapsed.Microseconds()) / 1000,
		},
		RequestID: RequestIDFromContext(r.Context()),
	}
	if req.DOT {
		artifacts, err := s.runner.Render(r.Context(), g, &res, pipeline.Options{
			Formats:  []string{pipeline.FormatDOT},
			Detailed: true,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.DOT = string(artifacts[pipeline.FormatDOT])
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleValidate reports structural problems as valid=false with a 200
// status; only unreadable request bodies are client errors.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := s.decode(w, r, &raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := validateResponse{RequestID: RequestIDFromContext(r.Context())}
	g, err := s.readGraph(raw)
	if err == nil {
		resp.Nodes = g.NodeCount()
		resp.Edges = g.EdgeCount()
		resp.Start = aoio.Start(g)
		resp.Sources = nodeIDs(g.Sources())
		resp.Sinks = nodeIDs(g.Sinks())
		err = g.Validate()
	}
	if err != nil {
		coded := errors.FromSearch(err)
		if coded.Code == errors.ErrCodeInternal {
			coded = errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", err.Error())
		}
		resp.Error = &apiError{Code: coded.Code, Message: coded.Message}
	}
	resp.Valid = resp.Error == nil

	writeJSON(w, http.StatusOK, resp)
}

func nodeIDs(nodes []*andor.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// decode reads a JSON body no larger than MaxBodyBytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func (s *Server) readGraph(raw json.RawMessage) (*andor.Graph, error) {
	g, err := aoio.Read(bytes.NewReader(raw), aoio.FormatJSON)
	if err != nil {
		coded := errors.FromSearch(err)
		if coded.Code == errors.ErrCodeInternal {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "%s", err.Error())
		}
		return nil, coded
	}
	if err := errors.ValidateGraphSize(g, s.cfg.MaxNodes, s.cfg.MaxEdges); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	coded := errors.FromSearch(err)
	status := errors.HTTPStatus(coded.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
	} else {
		s.logger.Debug("request rejected", "code", coded.Code, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     apiError{Code: coded.Code, Message: coded.Message},
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
