// Package model contains the review blitz domain entities shared between
// the scoring engine, the leaderboard aggregator, and the adapters.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Week length used to assign reviews to weekly themes.
const weekDuration = 7 * 24 * time.Hour

// Member is a forum member, keyed by their forum user id.
type Member struct {
	ID       int64
	Username string
}

// Fic is a reviewable work. Co-authored fics carry every author id;
// heat bonuses consider each author individually.
type Fic struct {
	ID      int64
	Title   string
	Authors []int64
}

// AuthoredBy reports whether memberID is one of the fic's authors.
func (f Fic) AuthoredBy(memberID int64) bool {
	for _, a := range f.Authors {
		if a == memberID {
			return true
		}
	}
	return false
}

// Chapter is a single chapter of a fic, used for long-chapter bonuses.
type Chapter struct {
	ID        int64
	FicID     int64
	Number    int
	WordCount int
}

// Review is an immutable fact about a forum review post.
type Review struct {
	PostID     int64
	AuthorID   int64
	FicID      int64
	PostedDate time.Time
	WordCount  int
	Chapters   int // fic chapters the review covers, user-declared
}

// ClaimPolicy controls how often a weekly theme bonus may be claimed.
type ClaimPolicy string

// Claim policies.
const (
	ClaimPerChapter ClaimPolicy = "per_chapter"
	ClaimPerReview  ClaimPolicy = "per_review"
	ClaimPerFic     ClaimPolicy = "per_fic"
)

// WeeklyTheme is an incentive condition reviewers can opt into satisfying.
type WeeklyTheme struct {
	ID          string
	Name        string
	Description string
	Claimable   ClaimPolicy

	// SubsequentChapterThemeBonus carries a per-chapter claim through every
	// chapter once triggered for the first.
	SubsequentChapterThemeBonus bool

	// ConsecutiveChapterBonusApplies gates the streak bonus while this
	// theme is active.
	ConsecutiveChapterBonusApplies bool
}

// BlitzTheme assigns a weekly theme to a 1-based week of a blitz.
type BlitzTheme struct {
	Week  int
	Theme WeeklyTheme
}

// ScoringRules is the admin-managed scoring configuration for a blitz.
// Immutable while the blitz runs.
type ScoringRules struct {
	Name string

	MinWords        int
	WordsPerChapter int
	ChapterPoints   decimal.Decimal

	ConsecutiveChapterInterval int
	ConsecutiveChapterBonus    decimal.Decimal

	ThemeBonus decimal.Decimal

	LongChapterBonusWords int
	LongChapterBonus      decimal.Decimal

	HeatBonusMultiplier decimal.Decimal

	// Heat bonus caps, tiered by effective chapters given.
	HeatBonusThresholdTier1 int
	HeatBonusThresholdTier2 int
	MaxHeatBonusTier0       decimal.Decimal
	MaxHeatBonusTier1       decimal.Decimal
	MaxHeatBonus            decimal.Decimal
}

// EffectiveChapters caps the declared chapter count by what the word count
// can support: min(wordCount/wordsPerChapter, chapters).
func (r ScoringRules) EffectiveChapters(wordCount, chapters int) int {
	if r.WordsPerChapter <= 0 {
		return 0
	}
	supported := wordCount / r.WordsPerChapter
	if chapters < supported {
		return chapters
	}
	return supported
}

// HeatCap returns the heat bonus cap for the tier selected by the number of
// effective chapters given. Boundary values belong to the higher tier.
func (r ScoringRules) HeatCap(chaptersGiven int) decimal.Decimal {
	switch {
	case chaptersGiven < r.HeatBonusThresholdTier1:
		return r.MaxHeatBonusTier0
	case chaptersGiven < r.HeatBonusThresholdTier2:
		return r.MaxHeatBonusTier1
	default:
		return r.MaxHeatBonus
	}
}

// ReviewBlitz is a time-boxed review incentive event.
type ReviewBlitz struct {
	ID        string
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Scoring   ScoringRules
	Themes    []BlitzTheme
}

// Contains reports whether t falls within the blitz window [start, end).
func (b ReviewBlitz) Contains(t time.Time) bool {
	return !t.Before(b.StartDate) && t.Before(b.EndDate)
}

// WeekOf returns the 1-based blitz week the given time falls in.
func (b ReviewBlitz) WeekOf(t time.Time) int {
	return int(t.Sub(b.StartDate)/weekDuration) + 1
}

// ThemeForWeek returns the weekly theme assigned to the given week, or nil
// if the week has no theme.
func (b ReviewBlitz) ThemeForWeek(week int) *WeeklyTheme {
	for i := range b.Themes {
		if b.Themes[i].Week == week {
			return &b.Themes[i].Theme
		}
	}
	return nil
}

// CurrentBlitz resolves the current blitz from a preloaded blitz list: the
// blitz whose window contains now, falling back to the latest by start
// date. Returns false if no blitzes exist. Callers resolve this once and
// pass the result down; nothing below this reads the wall clock.
func CurrentBlitz(now time.Time, blitzes []ReviewBlitz) (ReviewBlitz, bool) {
	if len(blitzes) == 0 {
		return ReviewBlitz{}, false
	}
	latest := blitzes[0]
	for _, b := range blitzes {
		if b.Contains(now) {
			return b, true
		}
		if b.StartDate.After(latest.StartDate) {
			latest = b
		}
	}
	return latest, true
}

// BlitzReview joins a review to the blitz it was submitted under.
// Score is written once at submission; HeatBonus is a write-once snapshot
// taken at approval time and never refreshed as later reviews arrive.
type BlitzReview struct {
	BlitzID   string
	Review    Review
	Theme     bool
	Score     decimal.Decimal
	Approved  bool
	HeatBonus decimal.Decimal
}

// ReviewChapterLink credits one long chapter to one blitz review.
type ReviewChapterLink struct {
	BlitzID      string
	ReviewPostID int64
	Chapter      Chapter
}

// BlitzUser is the per-(blitz, member) mutable record, created lazily the
// first time a member interacts with a blitz.
type BlitzUser struct {
	BlitzID     string
	MemberID    int64
	BonusPoints decimal.Decimal
	PointsSpent decimal.Decimal
}
