package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lrpalns/internal/model"
	"lrpalns/internal/opt"
)

// RunsHandler handles POST /v1/runs (submit) and GET /v1/runs (list).
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r)
	if err != nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateRunRequest(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid run request", err.Error(), r.URL.Path)
			return
		}
		params := s.mergeParameters(req.Parameters)
		id, err := s.submitRun(p.Workspace, req.Instance, req.Method, params)
		if err != nil {
			if model.Is(err, model.ConfigError) {
				writeProblem(w, http.StatusBadRequest, "Invalid parameters", err.Error(), r.URL.Path)
				return
			}
			writeProblem(w, http.StatusInternalServerError, "Submit run failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"id": id, "status": "running"})
	case http.MethodGet:
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListRuns(r.Context(), p.Workspace, cursor, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List runs failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// RunByIDHandler handles GET /v1/runs/{id} and GET /v1/runs/{id}/stream.
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r)
	if err != nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), r.URL.Path)
		return
	}
	id, sub := splitRunPath(r.URL.Path)
	if id == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if sub == "stream" {
		s.streamRun(w, r, p.Workspace, id)
		return
	}
	rec, err := s.Store.GetRun(r.Context(), p.Workspace, id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Run not found", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func splitRunPath(path string) (id, sub string) {
	const prefix = "/v1/runs/"
	if len(path) <= len(prefix) {
		return "", ""
	}
	rest := path[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			return rest[:i], rest[i+1:]
		}
	}
	return rest, ""
}

func (s *Server) mergeParameters(o *paramsOverlay) opt.Parameters {
	p := s.Defaults
	if o == nil {
		return p
	}
	if o.TotalIterations > 0 {
		p.TotalIterations = o.TotalIterations
	}
	if o.SegmentSize > 0 {
		p.SegmentSize = o.SegmentSize
	}
	if len(o.DestroyCatalog) > 0 {
		p.DestroyCatalog = o.DestroyCatalog
	}
	if len(o.InsertionCatalog) > 0 {
		p.InsertionCatalog = o.InsertionCatalog
	}
	if len(o.LocalSearchCatalog) > 0 {
		p.LocalSearchCatalog = o.LocalSearchCatalog
	}
	if o.Seed != 0 {
		p.Seed = o.Seed
	}
	return p
}
