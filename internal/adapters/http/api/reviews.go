package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fanficforum/blitz/internal/app"
	"github.com/fanficforum/blitz/internal/domain/model"
)

// ReviewsHandler handles review submissions.
type ReviewsHandler struct {
	deps Dependencies
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(deps Dependencies) *ReviewsHandler {
	return &ReviewsHandler{deps: deps}
}

// reviewRequest mirrors the submission form: the review's forum facts plus
// the submitter's theme claim and optional long-chapter links.
type reviewRequest struct {
	SubmitterID    int64   `json:"submitter_id"`
	PostID         int64   `json:"post_id"`
	AuthorID       int64   `json:"author_id"`
	FicID          int64   `json:"fic_id"`
	PostedDate     string  `json:"posted_date"`
	WordCount      int     `json:"word_count"`
	Chapters       int     `json:"chapters"`
	SatisfiesTheme bool    `json:"satisfies_theme"`
	ChapterIDs     []int64 `json:"chapter_ids"`
}

func (r reviewRequest) validate() error {
	switch {
	case r.SubmitterID == 0:
		return errors.New("missing submitter_id")
	case r.PostID == 0:
		return errors.New("missing post_id")
	case r.AuthorID == 0:
		return errors.New("missing author_id")
	case r.FicID == 0:
		return errors.New("missing fic_id")
	case r.Chapters < 1:
		return errors.New("chapters must be at least 1")
	case strings.TrimSpace(r.PostedDate) == "":
		return errors.New("missing posted_date")
	}
	if _, err := time.Parse(time.RFC3339, r.PostedDate); err != nil {
		return errors.New("invalid posted_date; must be RFC3339")
	}
	return nil
}

// HandleReviews handles POST /reviews requests.
func (h *ReviewsHandler) HandleReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	posted, _ := time.Parse(time.RFC3339, req.PostedDate)

	br, err := h.deps.SubmitReview(r.Context(), app.SubmitRequest{
		SubmitterID: req.SubmitterID,
		Review: model.Review{
			PostID:     req.PostID,
			AuthorID:   req.AuthorID,
			FicID:      req.FicID,
			PostedDate: posted,
			WordCount:  req.WordCount,
			Chapters:   req.Chapters,
		},
		ThemeChecked: req.SatisfiesTheme,
		ChapterIDs:   req.ChapterIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewResponse(br))
}
