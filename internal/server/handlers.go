package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/thought-capture/internal/types"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var input types.CaptureInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.orchestrator.Capture(r.Context(), input)
	status := http.StatusOK
	if !result.Success {
		// Even total failure returns the result body: the raw text is
		// embedded there so the caller can retry or display it.
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

func (s *Server) handleListReview(w http.ResponseWriter, r *http.Request) {
	items := s.queue.ItemsNeedingReview(r.URL.Query().Get("tracker"))
	if items == nil {
		items = []*types.ReviewableItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleReviewStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.queue.StatusCounts())
}

// reviewActionBody is the request body for a single review action.
type reviewActionBody struct {
	Action types.ReviewAction `json:"action"`
	Edit   *types.ReviewEdit  `json:"edit,omitempty"`
}

func (s *Server) handleReviewAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body reviewActionBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req := types.ReviewActionRequest{ItemID: id, Action: body.Action, Edit: body.Edit}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !types.ValidReviewAction(body.Action) {
		writeError(w, http.StatusBadRequest, "unknown action: "+string(body.Action))
		return
	}

	if !s.queue.ProcessAction(id, body.Action, body.Edit) {
		writeError(w, http.StatusNotFound, "action failed for item "+id)
		return
	}
	writeJSON(w, http.StatusOK, types.ReviewActionResult{ItemID: id, Action: string(body.Action), Success: true})
}

// reviewBatchBody is the request body for a batch of review actions.
type reviewBatchBody struct {
	Actions []types.ReviewActionRequest `json:"actions"`
}

func (s *Server) handleReviewBatch(w http.ResponseWriter, r *http.Request) {
	var body reviewBatchBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.queue.BatchProcess(body.Actions))
}

func (s *Server) handleClearConfirmed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"removed": s.queue.ClearConfirmed()})
}

func (s *Server) handleListTrackers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Trackers())
}

// completeBody is the request body for a task completion.
type completeBody struct {
	Tracker     string `json:"tracker"`
	Description string `json:"description"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var body completeBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.Tracker == "" || body.Description == "" {
		writeError(w, http.StatusBadRequest, "tracker and description are required")
		return
	}

	if !s.store.MarkTaskComplete(body.Tracker, body.Description) {
		writeError(w, http.StatusNotFound, "no open task matched")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
