// Package api declares the JSON HTTP contracts and route registration for
// the review blitz service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/adapters/repository"
	"github.com/fanficforum/blitz/internal/app"
	"github.com/fanficforum/blitz/internal/domain/leaderboard"
	"github.com/fanficforum/blitz/internal/domain/model"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the app service.
type Dependencies interface {
	CurrentBlitz(ctx context.Context) (model.ReviewBlitz, error)
	PastBlitzes(ctx context.Context) ([]model.ReviewBlitz, error)
	SubmitReview(ctx context.Context, req app.SubmitRequest) (model.BlitzReview, error)
	PendingReviews(ctx context.Context) ([]model.BlitzReview, error)
	ApproveReview(ctx context.Context, blitzID string, postID int64, themeOverride *bool) (model.BlitzReview, error)
	RejectReview(ctx context.Context, blitzID string, postID int64) error
	Leaderboard(ctx context.Context, limit int) ([]leaderboard.Row, error)
	MemberStats(ctx context.Context, memberID int64) (app.MemberStats, error)
	RegisterBlitz(ctx context.Context, b model.ReviewBlitz) error
	RegisterMember(ctx context.Context, m model.Member) error
	RegisterFic(ctx context.Context, f model.Fic) error
	RegisterChapter(ctx context.Context, c model.Chapter) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	reviewsHandler     *ReviewsHandler
	queueHandler       *QueueHandler
	leaderboardHandler *LeaderboardHandler
	membersHandler     *MembersHandler
	blitzesHandler     *BlitzesHandler
	healthHandler      *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLeaderboardLimit int) *Server {
	return &Server{
		reviewsHandler:     NewReviewsHandler(deps),
		queueHandler:       NewQueueHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		membersHandler:     NewMembersHandler(deps),
		blitzesHandler:     NewBlitzesHandler(deps),
		healthHandler:      NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/reviews", MetricsMiddleware(s.reviewsHandler.HandleReviews, "reviews"))
	mux.HandleFunc("/queue", MetricsMiddleware(s.queueHandler.HandleQueue, "queue"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/members/", MetricsMiddleware(s.membersHandler.HandleGetMember, "members"))
	mux.HandleFunc("/members", MetricsMiddleware(s.membersHandler.HandlePostMember, "members"))
	mux.HandleFunc("/blitzes", MetricsMiddleware(s.blitzesHandler.HandleBlitzes, "blitzes"))
	mux.HandleFunc("/fics", MetricsMiddleware(s.blitzesHandler.HandlePostFic, "fics"))
	mux.HandleFunc("/chapters", MetricsMiddleware(s.blitzesHandler.HandlePostChapter, "chapters"))
}

// blitzReviewResponse mirrors the stored blitz review shape.
type blitzReviewResponse struct {
	BlitzID    string          `json:"blitz_id"`
	PostID     int64           `json:"post_id"`
	AuthorID   int64           `json:"author_id"`
	FicID      int64           `json:"fic_id"`
	PostedDate time.Time       `json:"posted_date"`
	WordCount  int             `json:"word_count"`
	Chapters   int             `json:"chapters"`
	Theme      bool            `json:"theme"`
	Score      decimal.Decimal `json:"score"`
	Approved   bool            `json:"approved"`
	HeatBonus  decimal.Decimal `json:"heat_bonus"`
}

func toReviewResponse(br model.BlitzReview) blitzReviewResponse {
	return blitzReviewResponse{
		BlitzID:    br.BlitzID,
		PostID:     br.Review.PostID,
		AuthorID:   br.Review.AuthorID,
		FicID:      br.Review.FicID,
		PostedDate: br.Review.PostedDate,
		WordCount:  br.Review.WordCount,
		Chapters:   br.Review.Chapters,
		Theme:      br.Theme,
		Score:      br.Score,
		Approved:   br.Approved,
		HeatBonus:  br.HeatBonus,
	}
}

func toReviewResponses(brs []model.BlitzReview) []blitzReviewResponse {
	out := make([]blitzReviewResponse, len(brs))
	for i, br := range brs {
		out[i] = toReviewResponse(br)
	}
	return out
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "already_submitted", err)
	case errors.Is(err, app.ErrReviewTooShort),
		errors.Is(err, app.ErrReviewOutOfWindow),
		errors.Is(err, app.ErrReviewNotByUser),
		errors.Is(err, app.ErrChapterFicMismatch):
		writeError(w, http.StatusUnprocessableEntity, "invalid_submission", err)
	case errors.Is(err, app.ErrNoBlitz), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
