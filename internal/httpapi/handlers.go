package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"neopir/internal/inventory"
	"neopir/internal/report"
	"neopir/internal/scoring"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

type itemView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Dimension string `json:"dimension"`
	Facet     string `json:"facet"`
	Reverse   bool   `json:"reverse"`
}

type itemsResponse struct {
	Inventory string     `json:"inventory"`
	ScaleMin  int        `json:"scale_min"`
	ScaleMax  int        `json:"scale_max"`
	Labels    []string   `json:"labels"`
	Items     []itemView `json:"items"`
}

type scoreRequest struct {
	SessionID string            `json:"session_id"`
	Responses scoring.Responses `json:"responses"`
	Strict    bool              `json:"strict"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.observe("items", time.Now())

	items := s.inv.Items()
	resp := itemsResponse{
		Inventory: s.inv.Name,
		ScaleMin:  s.inv.Scale.Min,
		ScaleMax:  s.inv.Scale.Max,
		Labels:    s.inv.Scale.Labels,
		Items:     make([]itemView, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, toItemView(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	it, ok := s.inv.Item(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown item " + id})
		return
	}
	writeJSON(w, http.StatusOK, toItemView(it))
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.observe("score", time.Now())

	var req scoreRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.metrics.recordSubmission("bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := scoring.Validate(s.inv, req.Responses); err != nil {
		s.metrics.recordSubmission("invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.Strict {
		if err := scoring.RequireComplete(s.inv, req.Responses); err != nil {
			var inc *scoring.IncompleteError
			resp := errorResponse{Error: err.Error()}
			if errors.As(err, &inc) {
				resp.Missing = inc.Missing
			}
			s.metrics.recordSubmission("incomplete")
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
	}

	s.logAudit("score_started", map[string]any{
		"session_id": req.SessionID,
		"answered":   len(req.Responses),
		"strict":     req.Strict,
	})

	res := scoring.Evaluate(s.inv, req.Responses)
	rep, err := report.Build(s.inv, res, req.Responses, report.Meta{SessionID: req.SessionID, GeneratedAt: s.now()})
	if err != nil {
		s.metrics.recordSubmission("error")
		s.logger.Error("build report failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "build report failed"})
		return
	}

	s.metrics.recordSubmission("scored")
	s.metrics.recordReport(rep)
	s.logAudit("score_finished", map[string]any{
		"session_id": req.SessionID,
		"dominant":   rep.Dominant,
		"weakest":    rep.Weakest,
	})
	s.logger.Debug("scored submission", "answered", rep.Answered, "dominant", rep.Dominant)

	writeJSON(w, http.StatusOK, rep)
}

func toItemView(it inventory.Item) itemView {
	return itemView{
		ID:        it.ID,
		Text:      it.Text,
		Dimension: string(it.Dimension),
		Facet:     it.Facet,
		Reverse:   it.Reverse,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
