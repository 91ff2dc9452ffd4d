package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fanficforum/blitz/internal/domain/model"
)

// reviewKey identifies a blitz review.
type reviewKey struct {
	blitzID string
	postID  int64
}

// userKey identifies a per-(blitz, member) record.
type userKey struct {
	blitzID  string
	memberID int64
}

// MemStore is the default in-memory Store. All maps are guarded by a single
// RWMutex; listing methods return copies in deterministic order so callers
// can iterate without re-sorting.
type MemStore struct {
	mu       sync.RWMutex
	blitzes  map[string]model.ReviewBlitz
	members  map[int64]model.Member
	fics     map[int64]model.Fic
	chapters map[int64]model.Chapter
	reviews  map[reviewKey]model.BlitzReview
	links    map[reviewKey][]model.ReviewChapterLink
	users    map[userKey]model.BlitzUser
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		blitzes:  make(map[string]model.ReviewBlitz),
		members:  make(map[int64]model.Member),
		fics:     make(map[int64]model.Fic),
		chapters: make(map[int64]model.Chapter),
		reviews:  make(map[reviewKey]model.BlitzReview),
		links:    make(map[reviewKey][]model.ReviewChapterLink),
		users:    make(map[userKey]model.BlitzUser),
	}
}

var _ Store = (*MemStore)(nil)

func (s *MemStore) SaveBlitz(_ context.Context, b model.ReviewBlitz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blitzes[b.ID] = b
	return nil
}

func (s *MemStore) Blitz(_ context.Context, id string) (model.ReviewBlitz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blitzes[id]
	if !ok {
		return model.ReviewBlitz{}, ErrNotFound
	}
	return b, nil
}

func (s *MemStore) Blitzes(_ context.Context) ([]model.ReviewBlitz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ReviewBlitz, 0, len(s.blitzes))
	for _, b := range s.blitzes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *MemStore) SaveMember(_ context.Context, m model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = m
	return nil
}

func (s *MemStore) Member(_ context.Context, id int64) (model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return model.Member{}, ErrNotFound
	}
	return m, nil
}

func (s *MemStore) Members(_ context.Context) (map[int64]model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]model.Member, len(s.members))
	for id, m := range s.members {
		out[id] = m
	}
	return out, nil
}

func (s *MemStore) SaveFic(_ context.Context, f model.Fic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fics[f.ID] = f
	return nil
}

func (s *MemStore) Fic(_ context.Context, id int64) (model.Fic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fics[id]
	if !ok {
		return model.Fic{}, ErrNotFound
	}
	return f, nil
}

func (s *MemStore) Fics(_ context.Context) (map[int64]model.Fic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]model.Fic, len(s.fics))
	for id, f := range s.fics {
		out[id] = f
	}
	return out, nil
}

func (s *MemStore) SaveChapter(_ context.Context, c model.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chapters[c.ID] = c
	return nil
}

func (s *MemStore) Chapter(_ context.Context, id int64) (model.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chapters[id]
	if !ok {
		return model.Chapter{}, ErrNotFound
	}
	return c, nil
}

func (s *MemStore) AddBlitzReview(_ context.Context, br model.BlitzReview, links []model.ReviewChapterLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.reviews {
		if key.postID == br.Review.PostID {
			return ErrDuplicateReview
		}
	}
	key := reviewKey{blitzID: br.BlitzID, postID: br.Review.PostID}
	s.reviews[key] = br
	if len(links) > 0 {
		s.links[key] = append([]model.ReviewChapterLink(nil), links...)
	}
	return nil
}

func (s *MemStore) UpdateBlitzReview(_ context.Context, br model.BlitzReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reviewKey{blitzID: br.BlitzID, postID: br.Review.PostID}
	if _, ok := s.reviews[key]; !ok {
		return ErrNotFound
	}
	s.reviews[key] = br
	return nil
}

func (s *MemStore) DeleteBlitzReview(_ context.Context, blitzID string, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reviewKey{blitzID: blitzID, postID: postID}
	if _, ok := s.reviews[key]; !ok {
		return ErrNotFound
	}
	delete(s.reviews, key)
	delete(s.links, key)
	return nil
}

func (s *MemStore) BlitzReview(_ context.Context, blitzID string, postID int64) (model.BlitzReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	br, ok := s.reviews[reviewKey{blitzID: blitzID, postID: postID}]
	if !ok {
		return model.BlitzReview{}, ErrNotFound
	}
	return br, nil
}

func (s *MemStore) BlitzReviews(_ context.Context, blitzID string) ([]model.BlitzReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listReviews(func(br model.BlitzReview) bool {
		return br.BlitzID == blitzID
	}), nil
}

func (s *MemStore) PendingReviews(_ context.Context, blitzID string) ([]model.BlitzReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listReviews(func(br model.BlitzReview) bool {
		return br.BlitzID == blitzID && !br.Approved
	}), nil
}

func (s *MemStore) ReviewsByAuthor(_ context.Context, blitzID string, authorID int64) ([]model.BlitzReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listReviews(func(br model.BlitzReview) bool {
		return br.BlitzID == blitzID && br.Review.AuthorID == authorID
	}), nil
}

func (s *MemStore) ReviewsByAuthorAndFic(_ context.Context, blitzID string, authorID, ficID int64) ([]model.BlitzReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listReviews(func(br model.BlitzReview) bool {
		return br.BlitzID == blitzID && br.Review.AuthorID == authorID && br.Review.FicID == ficID
	}), nil
}

func (s *MemStore) ReviewSubmitted(_ context.Context, postID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key := range s.reviews {
		if key.postID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) ChapterLinks(_ context.Context, blitzID string, postID int64) ([]model.ReviewChapterLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := s.links[reviewKey{blitzID: blitzID, postID: postID}]
	return append([]model.ReviewChapterLink(nil), links...), nil
}

func (s *MemStore) EnsureBlitzUser(_ context.Context, blitzID string, memberID int64) (model.BlitzUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userKey{blitzID: blitzID, memberID: memberID}
	if u, ok := s.users[key]; ok {
		return u, nil
	}
	u := model.BlitzUser{BlitzID: blitzID, MemberID: memberID}
	s.users[key] = u
	return u, nil
}

func (s *MemStore) SaveBlitzUser(_ context.Context, u model.BlitzUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userKey{blitzID: u.BlitzID, memberID: u.MemberID}] = u
	return nil
}

func (s *MemStore) BlitzUsers(_ context.Context, blitzID string) (map[int64]model.BlitzUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]model.BlitzUser)
	for key, u := range s.users {
		if key.blitzID == blitzID {
			out[key.memberID] = u
		}
	}
	return out, nil
}

// listReviews collects matching reviews sorted by posted date then post id.
// Callers must hold at least the read lock.
func (s *MemStore) listReviews(match func(model.BlitzReview) bool) []model.BlitzReview {
	var out []model.BlitzReview
	for _, br := range s.reviews {
		if match(br) {
			out = append(out, br)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Review.PostedDate.Equal(out[j].Review.PostedDate) {
			return out[i].Review.PostedDate.Before(out[j].Review.PostedDate)
		}
		return out[i].Review.PostID < out[j].Review.PostID
	})
	return out
}
