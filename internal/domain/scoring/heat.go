package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/domain/model"
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// Snapshot is the blitz-wide state the heat calculator and the leaderboard
// aggregator read. Callers preload it from the store; the engine never
// queries anything itself.
type Snapshot struct {
	Reviews []model.BlitzReview
	Users   map[int64]model.BlitzUser
	Fics    map[int64]model.Fic
	Members map[int64]model.Member
}

// ChaptersGiven sums effective chapters across the member's own approved
// reviews this blitz.
func (s Snapshot) ChaptersGiven(rules model.ScoringRules, memberID int64) int {
	total := 0
	for _, br := range s.Reviews {
		if !br.Approved || br.Review.AuthorID != memberID {
			continue
		}
		total += rules.EffectiveChapters(br.Review.WordCount, br.Review.Chapters)
	}
	return total
}

// ChaptersReceived sums effective chapters across approved reviews of the
// fics the member authored.
func (s Snapshot) ChaptersReceived(rules model.ScoringRules, memberID int64) int {
	total := 0
	for _, br := range s.Reviews {
		if !br.Approved {
			continue
		}
		fic, ok := s.Fics[br.Review.FicID]
		if !ok || !fic.AuthoredBy(memberID) {
			continue
		}
		total += rules.EffectiveChapters(br.Review.WordCount, br.Review.Chapters)
	}
	return total
}

// HeatBonus computes the heat bonus for an approved review: the reviewed
// fic's authors are considered individually and the largest resulting bonus
// wins. Invoked once per review at approval time; the stored value is a
// snapshot and is not refreshed as later reviews arrive.
func (e *Engine) HeatBonus(review model.Review, blitz model.ReviewBlitz, snap Snapshot) decimal.Decimal {
	rules := blitz.Scoring
	best := decimal.Zero

	fic, ok := snap.Fics[review.FicID]
	if !ok {
		return best
	}

	for _, authorID := range fic.Authors {
		// Authors without a blitz user record are not participating.
		if _, participating := snap.Users[authorID]; !participating {
			continue
		}
		// One heat bonus per (reviewer, recipient) pair per blitz.
		if e.heatAlreadyAwarded(review.AuthorID, authorID, snap) {
			continue
		}

		given := snap.ChaptersGiven(rules, authorID)
		received := snap.ChaptersReceived(rules, authorID)

		bonus := HeatFromTotals(rules, given, received)
		if bonus.GreaterThan(best) {
			best = bonus
		}
	}
	return best
}

// heatAlreadyAwarded reports whether a review by reviewer of one of
// recipient's fics already carries a nonzero heat bonus this blitz.
func (e *Engine) heatAlreadyAwarded(reviewerID, recipientID int64, snap Snapshot) bool {
	for _, br := range snap.Reviews {
		if br.Review.AuthorID != reviewerID || !br.HeatBonus.IsPositive() {
			continue
		}
		fic, ok := snap.Fics[br.Review.FicID]
		if ok && fic.AuthoredBy(recipientID) {
			return true
		}
	}
	return false
}

// HeatFromTotals applies the tiered heat formula to aggregate totals:
// min((given+1)/(received+1)*multiplier - 1, cap), rounded to the nearest
// half point and clamped to [0, cap]. A member who has not given more than
// they received earns nothing. The +1 offsets keep the ratio defined when
// nobody has been reviewed yet.
func HeatFromTotals(rules model.ScoringRules, given, received int) decimal.Decimal {
	if given <= received {
		return decimal.Zero
	}
	limit := rules.HeatCap(given)

	base := decimal.NewFromInt(int64(given) + 1).
		Div(decimal.NewFromInt(int64(received) + 1)).
		Mul(rules.HeatBonusMultiplier).
		Sub(one)
	if base.GreaterThan(limit) {
		base = limit
	}

	bonus := roundHalf(base)
	if bonus.IsNegative() {
		return decimal.Zero
	}
	if bonus.GreaterThan(limit) {
		return limit
	}
	return bonus
}

// roundHalf rounds to the nearest half point.
func roundHalf(d decimal.Decimal) decimal.Decimal {
	return d.Mul(two).Round(0).Div(two)
}
