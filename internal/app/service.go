// Package app provides the core business service that implements the
// dependencies required by the HTTP API: review submission, the approval
// queue, member stats, and the leaderboard.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/adapters/repository"
	"github.com/fanficforum/blitz/internal/domain/leaderboard"
	"github.com/fanficforum/blitz/internal/domain/model"
	"github.com/fanficforum/blitz/internal/domain/scoring"
	"github.com/fanficforum/blitz/pkg/logger"
	"github.com/fanficforum/blitz/pkg/metrics"
)

// Clock returns the current time; injected so current-blitz resolution is
// testable and nothing below the service reads the wall clock.
type Clock func() time.Time

// Service wires the store and the scoring engine behind the operations the
// HTTP layer exposes.
type Service struct {
	store  repository.Store
	engine *scoring.Engine
	clock  Clock
	log    logger.Logger

	// Submissions racing on the same fic's streak boundary would read a
	// stale prior-chapters total, so the submit path is serialized per
	// (blitz, author, fic).
	submitMu sync.Mutex
	locks    map[string]*sync.Mutex

	metricsCron string
	cron        *cron.Cron

	mu      sync.Mutex
	started bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the state store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock sets the clock used to resolve the current blitz.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetricsCron sets the schedule for the background gauge refresh.
func WithMetricsCron(spec string) Option {
	return func(s *Service) {
		if spec != "" {
			s.metricsCron = spec
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:       repository.NewMemStore(),
		engine:      scoring.NewEngine(),
		clock:       time.Now,
		locks:       make(map[string]*sync.Mutex),
		metricsCron: "@every 1m",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service and schedules the gauge refresh job.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.metricsCron, func() { s.refreshGauges(context.Background()) }); err != nil {
		return fmt.Errorf("schedule metrics job: %w", err)
	}
	s.cron.Start()

	s.started = true
	s.log.Info(ctx, "review blitz service started", logger.String("metricsCron", s.metricsCron))
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.started = false
	s.log.Info(context.Background(), "review blitz service stopped")
}

// CurrentBlitz resolves the blitz submissions are accepted for right now.
func (s *Service) CurrentBlitz(ctx context.Context) (model.ReviewBlitz, error) {
	blitzes, err := s.store.Blitzes(ctx)
	if err != nil {
		return model.ReviewBlitz{}, err
	}
	blitz, ok := model.CurrentBlitz(s.clock(), blitzes)
	if !ok {
		return model.ReviewBlitz{}, ErrNoBlitz
	}
	return blitz, nil
}

// PastBlitzes lists every blitz except the current one, newest first.
func (s *Service) PastBlitzes(ctx context.Context) ([]model.ReviewBlitz, error) {
	current, err := s.CurrentBlitz(ctx)
	if err != nil {
		if errors.Is(err, ErrNoBlitz) {
			return nil, nil
		}
		return nil, err
	}
	blitzes, err := s.store.Blitzes(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.ReviewBlitz
	for i := len(blitzes) - 1; i >= 0; i-- {
		if blitzes[i].ID != current.ID {
			out = append(out, blitzes[i])
		}
	}
	return out, nil
}

// SubmitRequest is a member's review submission.
type SubmitRequest struct {
	SubmitterID  int64
	Review       model.Review
	ThemeChecked bool
	ChapterIDs   []int64
}

// SubmitReview validates and scores a review against the current blitz and
// persists the resulting blitz review pending moderator approval.
func (s *Service) SubmitReview(ctx context.Context, req SubmitRequest) (model.BlitzReview, error) {
	blitz, err := s.CurrentBlitz(ctx)
	if err != nil {
		return model.BlitzReview{}, err
	}

	if err := s.validate(ctx, blitz, req); err != nil {
		metrics.RecordReviewRejected()
		return model.BlitzReview{}, err
	}

	chapters, err := s.resolveChapters(ctx, req)
	if err != nil {
		metrics.RecordReviewRejected()
		return model.BlitzReview{}, err
	}

	unlock := s.lockSubmission(blitz.ID, req.Review.AuthorID, req.Review.FicID)
	defer unlock()

	prior, err := s.store.ReviewsByAuthorAndFic(ctx, blitz.ID, req.Review.AuthorID, req.Review.FicID)
	if err != nil {
		return model.BlitzReview{}, err
	}

	start := time.Now()
	result := s.engine.Score(scoring.Input{
		Review:       req.Review,
		Blitz:        blitz,
		Prior:        prior,
		ThemeChecked: req.ThemeChecked,
		LongChapters: chapters,
	})
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	br := model.BlitzReview{
		BlitzID:   blitz.ID,
		Review:    req.Review,
		Theme:     result.ThemeClaimed,
		Score:     result.Score,
		HeatBonus: decimal.Zero,
	}
	links := make([]model.ReviewChapterLink, 0, len(result.LongChapters))
	for _, ch := range result.LongChapters {
		links = append(links, model.ReviewChapterLink{
			BlitzID:      blitz.ID,
			ReviewPostID: req.Review.PostID,
			Chapter:      ch,
		})
	}
	if err := s.store.AddBlitzReview(ctx, br, links); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return model.BlitzReview{}, ErrAlreadySubmitted
		}
		return model.BlitzReview{}, err
	}
	if _, err := s.store.EnsureBlitzUser(ctx, blitz.ID, req.Review.AuthorID); err != nil {
		return model.BlitzReview{}, err
	}

	metrics.RecordReviewSubmitted()
	s.log.Info(ctx, "review submitted",
		logger.Int64("post", req.Review.PostID),
		logger.Int64("author", req.Review.AuthorID),
		logger.Int("week", result.Week),
		logger.Int("effectiveChapters", result.EffectiveChapters),
		logger.Bool("theme", result.ThemeClaimed),
		logger.Decimal("score", result.Score),
	)
	return br, nil
}

// validate applies the submission taxonomy before any scoring happens.
func (s *Service) validate(ctx context.Context, blitz model.ReviewBlitz, req SubmitRequest) error {
	if req.Review.WordCount < blitz.Scoring.MinWords {
		return ErrReviewTooShort
	}
	if !blitz.Contains(req.Review.PostedDate) {
		return ErrReviewOutOfWindow
	}
	if req.Review.AuthorID != req.SubmitterID {
		return ErrReviewNotByUser
	}
	submitted, err := s.store.ReviewSubmitted(ctx, req.Review.PostID)
	if err != nil {
		return err
	}
	if submitted {
		return ErrAlreadySubmitted
	}
	return nil
}

// resolveChapters loads the linked chapters and rejects any belonging to a
// different fic than the review.
func (s *Service) resolveChapters(ctx context.Context, req SubmitRequest) ([]model.Chapter, error) {
	chapters := make([]model.Chapter, 0, len(req.ChapterIDs))
	for _, id := range req.ChapterIDs {
		ch, err := s.store.Chapter(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", id, err)
		}
		if ch.FicID != req.Review.FicID {
			return nil, ErrChapterFicMismatch
		}
		chapters = append(chapters, ch)
	}
	return chapters, nil
}

// lockSubmission serializes submissions per (blitz, author, fic).
func (s *Service) lockSubmission(blitzID string, authorID, ficID int64) func() {
	key := fmt.Sprintf("%s/%d/%d", blitzID, authorID, ficID)
	s.submitMu.Lock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	s.submitMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// PendingReviews lists the approval queue for the current blitz.
func (s *Service) PendingReviews(ctx context.Context) ([]model.BlitzReview, error) {
	blitz, err := s.CurrentBlitz(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.PendingReviews(ctx, blitz.ID)
}

// ApproveReview marks a review approved. A non-nil theme override lets the
// moderator add or strip the theme bonus when the submitter's claim was
// wrong; the score is adjusted by one theme bonus either way. The heat
// bonus is computed and snapshotted here, once, after approval.
func (s *Service) ApproveReview(ctx context.Context, blitzID string, postID int64, themeOverride *bool) (model.BlitzReview, error) {
	br, err := s.store.BlitzReview(ctx, blitzID, postID)
	if err != nil {
		return model.BlitzReview{}, err
	}
	blitz, err := s.store.Blitz(ctx, blitzID)
	if err != nil {
		return model.BlitzReview{}, err
	}

	br.Approved = true
	if themeOverride != nil {
		switch {
		case *themeOverride && !br.Theme:
			br.Score = br.Score.Add(blitz.Scoring.ThemeBonus)
			br.Theme = true
		case !*themeOverride && br.Theme:
			br.Score = br.Score.Sub(blitz.Scoring.ThemeBonus)
			br.Theme = false
		}
	}
	if err := s.store.UpdateBlitzReview(ctx, br); err != nil {
		return model.BlitzReview{}, err
	}

	snap, err := s.snapshot(ctx, blitzID)
	if err != nil {
		return model.BlitzReview{}, err
	}
	heat := s.engine.HeatBonus(br.Review, blitz, snap)
	if heat.IsPositive() {
		br.HeatBonus = heat
		if err := s.store.UpdateBlitzReview(ctx, br); err != nil {
			return model.BlitzReview{}, err
		}
		metrics.RecordHeatBonus()
	}

	metrics.RecordReviewApproved()
	s.log.Info(ctx, "review approved",
		logger.Int64("post", postID),
		logger.Decimal("score", br.Score),
		logger.Decimal("heatBonus", br.HeatBonus),
	)
	return br, nil
}

// RejectReview removes a review from the approval queue.
func (s *Service) RejectReview(ctx context.Context, blitzID string, postID int64) error {
	if err := s.store.DeleteBlitzReview(ctx, blitzID, postID); err != nil {
		return err
	}
	metrics.RecordReviewDiscarded()
	s.log.Info(ctx, "review rejected", logger.Int64("post", postID))
	return nil
}

// Leaderboard aggregates the current blitz standings, capped at limit rows
// (0 means all).
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]leaderboard.Row, error) {
	blitz, err := s.CurrentBlitz(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, blitz.ID)
	if err != nil {
		return nil, err
	}
	rows := leaderboard.Compute(blitz, snap)
	metrics.RecordLeaderboardBuild()
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// MemberStats summarizes one member's standing in the current blitz.
type MemberStats struct {
	Member          model.Member
	ApprovedReviews []model.BlitzReview
	PendingReviews  []model.BlitzReview
	ApprovedScore   decimal.Decimal
	PendingScore    decimal.Decimal
	BonusPoints     decimal.Decimal
	PrizePoints     decimal.Decimal
}

// MemberStats builds the member's blitz summary, lazily creating their
// blitz user record on first access. The approved score includes any
// admin-granted bonus points; prize points additionally deduct what the
// member has already spent.
func (s *Service) MemberStats(ctx context.Context, memberID int64) (MemberStats, error) {
	blitz, err := s.CurrentBlitz(ctx)
	if err != nil {
		return MemberStats{}, err
	}
	member, err := s.store.Member(ctx, memberID)
	if err != nil {
		return MemberStats{}, err
	}
	user, err := s.store.EnsureBlitzUser(ctx, blitz.ID, memberID)
	if err != nil {
		return MemberStats{}, err
	}
	reviews, err := s.store.ReviewsByAuthor(ctx, blitz.ID, memberID)
	if err != nil {
		return MemberStats{}, err
	}

	stats := MemberStats{
		Member:        member,
		ApprovedScore: decimal.Zero,
		PendingScore:  decimal.Zero,
		BonusPoints:   user.BonusPoints,
	}
	for _, br := range reviews {
		if br.Approved {
			stats.ApprovedReviews = append(stats.ApprovedReviews, br)
			stats.ApprovedScore = stats.ApprovedScore.Add(br.Score)
		} else {
			stats.PendingReviews = append(stats.PendingReviews, br)
			stats.PendingScore = stats.PendingScore.Add(br.Score)
		}
	}
	stats.ApprovedScore = stats.ApprovedScore.Add(user.BonusPoints)
	stats.PrizePoints = stats.ApprovedScore.Sub(user.PointsSpent)
	return stats, nil
}

// RegisterBlitz stores a blitz definition.
func (s *Service) RegisterBlitz(ctx context.Context, b model.ReviewBlitz) error {
	return s.store.SaveBlitz(ctx, b)
}

// RegisterMember mirrors a forum member locally.
func (s *Service) RegisterMember(ctx context.Context, m model.Member) error {
	return s.store.SaveMember(ctx, m)
}

// RegisterFic mirrors a fic and its authors locally.
func (s *Service) RegisterFic(ctx context.Context, f model.Fic) error {
	return s.store.SaveFic(ctx, f)
}

// RegisterChapter mirrors a fic chapter locally.
func (s *Service) RegisterChapter(ctx context.Context, c model.Chapter) error {
	return s.store.SaveChapter(ctx, c)
}

// snapshot loads the blitz-wide state the heat calculator and leaderboard
// aggregator read.
func (s *Service) snapshot(ctx context.Context, blitzID string) (scoring.Snapshot, error) {
	reviews, err := s.store.BlitzReviews(ctx, blitzID)
	if err != nil {
		return scoring.Snapshot{}, err
	}
	users, err := s.store.BlitzUsers(ctx, blitzID)
	if err != nil {
		return scoring.Snapshot{}, err
	}
	fics, err := s.store.Fics(ctx)
	if err != nil {
		return scoring.Snapshot{}, err
	}
	members, err := s.store.Members(ctx)
	if err != nil {
		return scoring.Snapshot{}, err
	}
	return scoring.Snapshot{
		Reviews: reviews,
		Users:   users,
		Fics:    fics,
		Members: members,
	}, nil
}

// refreshGauges updates the queue depth and participant gauges.
func (s *Service) refreshGauges(ctx context.Context) {
	blitz, err := s.CurrentBlitz(ctx)
	if err != nil {
		return
	}
	if pending, err := s.store.PendingReviews(ctx, blitz.ID); err == nil {
		metrics.UpdatePendingReviews(len(pending))
	}
	if users, err := s.store.BlitzUsers(ctx, blitz.ID); err == nil {
		metrics.UpdateParticipants(len(users))
	}
}
