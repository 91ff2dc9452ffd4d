package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/domain/model"
)

// MembersHandler handles member registration and per-member blitz stats.
type MembersHandler struct {
	deps Dependencies
}

// NewMembersHandler creates a new members handler.
func NewMembersHandler(deps Dependencies) *MembersHandler {
	return &MembersHandler{deps: deps}
}

type memberRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// memberStatsResponse mirrors the member's blitz standing page: approved
// and pending reviews with their scores, plus prize points remaining.
type memberStatsResponse struct {
	MemberID        int64                 `json:"member_id"`
	Username        string                `json:"username"`
	ApprovedReviews []blitzReviewResponse `json:"approved_reviews"`
	PendingReviews  []blitzReviewResponse `json:"pending_reviews"`
	ApprovedScore   decimal.Decimal       `json:"approved_score"`
	PendingScore    decimal.Decimal       `json:"pending_score"`
	BonusPoints     decimal.Decimal       `json:"bonus_points"`
	PrizePoints     decimal.Decimal       `json:"prize_points"`
}

// HandlePostMember handles POST /members requests.
func (h *MembersHandler) HandlePostMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.ID == 0 || req.Username == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing id or username"))
		return
	}
	if err := h.deps.RegisterMember(r.Context(), model.Member{ID: req.ID, Username: req.Username}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// HandleGetMember handles GET /members/{id} requests.
func (h *MembersHandler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/members/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	stats, err := h.deps.MemberStats(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memberStatsResponse{
		MemberID:        stats.Member.ID,
		Username:        stats.Member.Username,
		ApprovedReviews: toReviewResponses(stats.ApprovedReviews),
		PendingReviews:  toReviewResponses(stats.PendingReviews),
		ApprovedScore:   stats.ApprovedScore,
		PendingScore:    stats.PendingScore,
		BonusPoints:     stats.BonusPoints,
		PrizePoints:     stats.PrizePoints,
	})
}
