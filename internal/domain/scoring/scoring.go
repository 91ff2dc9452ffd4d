// Package scoring implements the review blitz scoring engine: base
// per-chapter points, consecutive-chapter streak bonuses, weekly theme
// bonuses, and long-chapter bonuses. All arithmetic is decimal so point
// totals that get summed and displayed publicly never drift.
package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/domain/model"
)

// Input carries a validated review and the blitz state it is scored
// against. Validation (word minimum, window, authorship, duplicates) is the
// caller's responsibility; the engine always produces a score.
type Input struct {
	Review model.Review
	Blitz  model.ReviewBlitz

	// Prior holds the previously accepted blitz reviews by the same author
	// of the same fic. Ordering is irrelevant; only cumulative sums and
	// per-fic theme dedup read it.
	Prior []model.BlitzReview

	// ThemeChecked is the submitter's claim that the review satisfies the
	// active weekly theme.
	ThemeChecked bool

	// LongChapters are the chapter links the submitter attached, already
	// verified to belong to the reviewed fic.
	LongChapters []model.Chapter
}

// Result is the engine's output for one review.
type Result struct {
	Score             decimal.Decimal
	ThemeClaimed      bool
	Week              int
	EffectiveChapters int

	// LongChapters are the deduplicated chapters that earned a long-chapter
	// bonus; the caller persists one ReviewChapterLink per entry.
	LongChapters []model.Chapter
}

// Engine computes review scores and heat bonuses from preloaded blitz
// state. It is stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the point score for a new review.
func (e *Engine) Score(in Input) Result {
	rules := in.Blitz.Scoring
	eff := rules.EffectiveChapters(in.Review.WordCount, in.Review.Chapters)
	week := in.Blitz.WeekOf(in.Review.PostedDate)
	theme := in.Blitz.ThemeForWeek(week)

	score := rules.ChapterPoints.Mul(decimal.NewFromInt(int64(eff)))

	if theme == nil || theme.ConsecutiveChapterBonusApplies {
		prev := priorEffectiveChapters(rules, in.Prior)
		crossings := intervalCrossings(prev, eff, rules.ConsecutiveChapterInterval)
		if crossings > 0 {
			score = score.Add(rules.ConsecutiveChapterBonus.Mul(decimal.NewFromInt(int64(crossings))))
		}
	}

	claims := 0
	if in.ThemeChecked && theme != nil {
		claims = themeClaims(*theme, eff, week, in.Prior, in.Blitz)
		if claims > 0 {
			score = score.Add(rules.ThemeBonus.Mul(decimal.NewFromInt(int64(claims))))
		}
	}

	long := longChapters(rules, in.LongChapters)
	if n := len(long); n > 0 {
		score = score.Add(rules.LongChapterBonus.Mul(decimal.NewFromInt(int64(n))))
	}

	return Result{
		Score:             score.Round(2),
		ThemeClaimed:      claims > 0,
		Week:              week,
		EffectiveChapters: eff,
		LongChapters:      long,
	}
}

// priorEffectiveChapters sums effective chapters across the author's
// earlier reviews of the same fic.
func priorEffectiveChapters(rules model.ScoringRules, prior []model.BlitzReview) int {
	total := 0
	for _, br := range prior {
		total += rules.EffectiveChapters(br.Review.WordCount, br.Review.Chapters)
	}
	return total
}

// intervalCrossings counts how many interval boundaries the cumulative
// chapter total crosses with this review. The bonus rewards each crossing
// exactly once regardless of which review causes it.
func intervalCrossings(prev, added, interval int) int {
	if interval <= 0 {
		return 0
	}
	return (prev+added)/interval - prev/interval
}

// themeClaims returns how many theme bonuses the review may claim under
// the active theme's claim policy. Zero effective chapters claims nothing.
func themeClaims(theme model.WeeklyTheme, eff, week int, prior []model.BlitzReview, blitz model.ReviewBlitz) int {
	if eff <= 0 {
		return 0
	}
	switch theme.Claimable {
	case model.ClaimPerChapter:
		if theme.SubsequentChapterThemeBonus {
			// The claim triggered for the first chapter carries through
			// every subsequent chapter of the review.
			return 1 + (eff - 1)
		}
		return eff
	case model.ClaimPerReview:
		return 1
	case model.ClaimPerFic:
		// One claim per fic per week: a prior review of this fic that
		// already claimed the theme in the same week blocks this one.
		for _, br := range prior {
			if br.Theme && blitz.WeekOf(br.Review.PostedDate) == week {
				return 0
			}
		}
		return 1
	default:
		return 0
	}
}

// longChapters filters the attached chapters down to those meeting the
// long-chapter word threshold, deduplicated by chapter id so a resubmitted
// chapter is never double-linked.
func longChapters(rules model.ScoringRules, chapters []model.Chapter) []model.Chapter {
	seen := make(map[int64]struct{}, len(chapters))
	var long []model.Chapter
	for _, ch := range chapters {
		if ch.WordCount < rules.LongChapterBonusWords {
			continue
		}
		if _, ok := seen[ch.ID]; ok {
			continue
		}
		seen[ch.ID] = struct{}{}
		long = append(long, ch)
	}
	return long
}
