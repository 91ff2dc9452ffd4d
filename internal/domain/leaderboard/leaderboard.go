// Package leaderboard aggregates approved blitz reviews into per-member
// standings. The aggregation runs in two stages over a preloaded snapshot:
// raw per-member sums first, tiered heat-bonus post-processing second.
package leaderboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/domain/model"
	"github.com/fanficforum/blitz/internal/domain/scoring"
)

// Row is one member's standing on the blitz leaderboard.
type Row struct {
	Rank             int             `json:"rank"`
	MemberID         int64           `json:"member_id"`
	Username         string          `json:"username"`
	TotalPoints      decimal.Decimal `json:"total_points"`
	Reviews          int             `json:"reviews"`
	Chapters         int             `json:"chapters"`
	Words            int             `json:"words"`
	ChaptersGiven    int             `json:"chapters_given"`
	ChaptersReceived int             `json:"chapters_received"`
	HeatBonus        decimal.Decimal `json:"heat_bonus"`
	BonusPoints      decimal.Decimal `json:"bonus_points"`
}

// Compute builds the leaderboard for a blitz. Total points are the sum of
// approved review scores plus any admin-granted bonus points plus the heat
// bonus derived from the aggregate given/received totals; heat is always
// re-derived here rather than read from the per-review snapshots. Ordered
// by points descending, then username ascending.
func Compute(blitz model.ReviewBlitz, snap scoring.Snapshot) []Row {
	rules := blitz.Scoring

	// Stage one: raw sums per member.
	rows := make(map[int64]*Row)
	row := func(memberID int64) *Row {
		r, ok := rows[memberID]
		if !ok {
			r = &Row{
				MemberID:    memberID,
				Username:    snap.Members[memberID].Username,
				TotalPoints: decimal.Zero,
				HeatBonus:   decimal.Zero,
				BonusPoints: decimal.Zero,
			}
			rows[memberID] = r
		}
		return r
	}

	for _, br := range snap.Reviews {
		if !br.Approved {
			continue
		}
		r := row(br.Review.AuthorID)
		r.TotalPoints = r.TotalPoints.Add(br.Score)
		r.Reviews++
		r.Chapters += br.Review.Chapters
		r.Words += br.Review.WordCount
	}
	for memberID, user := range snap.Users {
		r := row(memberID)
		r.BonusPoints = user.BonusPoints
		r.TotalPoints = r.TotalPoints.Add(user.BonusPoints)
	}

	// Stage two: tiered heat post-processing.
	for memberID, r := range rows {
		r.ChaptersGiven = snap.ChaptersGiven(rules, memberID)
		r.ChaptersReceived = snap.ChaptersReceived(rules, memberID)
		r.HeatBonus = scoring.HeatFromTotals(rules, r.ChaptersGiven, r.ChaptersReceived)
		r.TotalPoints = r.TotalPoints.Add(r.HeatBonus).Round(2)
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalPoints.Equal(out[j].TotalPoints) {
			return out[i].TotalPoints.GreaterThan(out[j].TotalPoints)
		}
		return out[i].Username < out[j].Username
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
