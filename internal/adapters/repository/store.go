// Package repository defines the blitz state store interface and its
// implementations.
package repository

import (
	"context"

	"github.com/fanficforum/blitz/internal/domain/model"
)

// Store provides read/write access to blitz state. Implementations must be
// safe for concurrent use; the submission path on top of them is serialized
// per (blitz, author, fic) by the service.
type Store interface {
	// Blitz catalog.
	SaveBlitz(ctx context.Context, b model.ReviewBlitz) error
	Blitz(ctx context.Context, id string) (model.ReviewBlitz, error)
	Blitzes(ctx context.Context) ([]model.ReviewBlitz, error)

	// Forum-derived records (members, fics, chapters) mirrored locally.
	SaveMember(ctx context.Context, m model.Member) error
	Member(ctx context.Context, id int64) (model.Member, error)
	Members(ctx context.Context) (map[int64]model.Member, error)
	SaveFic(ctx context.Context, f model.Fic) error
	Fic(ctx context.Context, id int64) (model.Fic, error)
	Fics(ctx context.Context) (map[int64]model.Fic, error)
	SaveChapter(ctx context.Context, c model.Chapter) error
	Chapter(ctx context.Context, id int64) (model.Chapter, error)

	// Blitz reviews. AddBlitzReview persists the review and its chapter
	// links atomically and returns ErrDuplicateReview if the review post
	// was already submitted to any blitz.
	AddBlitzReview(ctx context.Context, br model.BlitzReview, links []model.ReviewChapterLink) error
	UpdateBlitzReview(ctx context.Context, br model.BlitzReview) error
	DeleteBlitzReview(ctx context.Context, blitzID string, postID int64) error
	BlitzReview(ctx context.Context, blitzID string, postID int64) (model.BlitzReview, error)
	BlitzReviews(ctx context.Context, blitzID string) ([]model.BlitzReview, error)
	PendingReviews(ctx context.Context, blitzID string) ([]model.BlitzReview, error)
	ReviewsByAuthor(ctx context.Context, blitzID string, authorID int64) ([]model.BlitzReview, error)
	ReviewsByAuthorAndFic(ctx context.Context, blitzID string, authorID, ficID int64) ([]model.BlitzReview, error)
	ReviewSubmitted(ctx context.Context, postID int64) (bool, error)
	ChapterLinks(ctx context.Context, blitzID string, postID int64) ([]model.ReviewChapterLink, error)

	// Per-(blitz, member) records, created lazily on first interaction.
	EnsureBlitzUser(ctx context.Context, blitzID string, memberID int64) (model.BlitzUser, error)
	SaveBlitzUser(ctx context.Context, u model.BlitzUser) error
	BlitzUsers(ctx context.Context, blitzID string) (map[int64]model.BlitzUser, error)
}
