package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// QueueHandler handles the moderator approval queue.
type QueueHandler struct {
	deps Dependencies
}

// NewQueueHandler creates a new approval queue handler.
func NewQueueHandler(deps Dependencies) *QueueHandler {
	return &QueueHandler{deps: deps}
}

// decisionRequest is a moderator's verdict on a pending review. Theme, when
// present, overrides the submitter's theme claim and adjusts the score by
// one theme bonus.
type decisionRequest struct {
	BlitzID string `json:"blitz_id"`
	PostID  int64  `json:"post_id"`
	Approve bool   `json:"approve"`
	Theme   *bool  `json:"theme,omitempty"`
}

func (d decisionRequest) validate() error {
	switch {
	case d.BlitzID == "":
		return errors.New("missing blitz_id")
	case d.PostID == 0:
		return errors.New("missing post_id")
	}
	return nil
}

// HandleQueue handles GET /queue (pending reviews) and POST /queue
// (approve or reject one).
func (h *QueueHandler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleDecision(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *QueueHandler) handleList(w http.ResponseWriter, r *http.Request) {
	pending, err := h.deps.PendingReviews(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponses(pending))
}

func (h *QueueHandler) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if !req.Approve {
		if err := h.deps.RejectReview(r.Context(), req.BlitzID, req.PostID); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
		return
	}

	br, err := h.deps.ApproveReview(r.Context(), req.BlitzID, req.PostID, req.Theme)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(br))
}
