package scoring_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/fanficforum/blitz/internal/domain/model"
	"github.com/fanficforum/blitz/internal/domain/scoring"
)

func TestHeatFromTotals(t *testing.T) {
	rules := testRules()

	Convey("Given the tiered heat formula", t, func() {
		Convey("When a member gave 10 chapters and received 2", func() {
			bonus := scoring.HeatFromTotals(rules, 10, 2)

			Convey("Then the ratio is capped at the tier-1 limit", func() {
				// (11/3)*1.0 - 1 ~= 2.667, capped to 1.0, rounded to 1.0.
				So(bonus.StringFixed(2), ShouldEqual, "1.00")
			})
		})

		Convey("When giving does not exceed receiving", func() {
			Convey("Then equal totals earn nothing", func() {
				So(scoring.HeatFromTotals(rules, 4, 4).IsZero(), ShouldBeTrue)
			})
			Convey("Then a net receiver earns nothing", func() {
				So(scoring.HeatFromTotals(rules, 2, 10).IsZero(), ShouldBeTrue)
			})
			Convey("Then zero activity earns nothing", func() {
				So(scoring.HeatFromTotals(rules, 0, 0).IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the given total sits exactly on a tier threshold", func() {
			Convey("Then the boundary belongs to the higher tier", func() {
				// given=5 is tier 1 (cap 1.00), not tier 0 (cap 0.50).
				So(scoring.HeatFromTotals(rules, 5, 0).StringFixed(2), ShouldEqual, "1.00")
				// given=20 is the top tier (cap 2.00).
				So(scoring.HeatFromTotals(rules, 20, 0).StringFixed(2), ShouldEqual, "2.00")
			})
		})

		Convey("When the raw ratio lands below the cap", func() {
			Convey("Then the result rounds to the nearest half point", func() {
				// given=3, received=2: (4/3)-1 ~= 0.333 -> 0.5, within the
				// tier-0 cap of 0.50.
				So(scoring.HeatFromTotals(rules, 3, 2).StringFixed(2), ShouldEqual, "0.50")
			})
		})

		Convey("When rounding up would exceed the cap", func() {
			tight := rules
			tight.MaxHeatBonusTier0 = decimal.RequireFromString("0.40")

			Convey("Then the cap clamps the rounded value", func() {
				// Capped base 0.40 rounds to 0.50, then clamps back to 0.40.
				So(scoring.HeatFromTotals(tight, 3, 1).StringFixed(2), ShouldEqual, "0.40")
			})
		})

		Convey("When a low multiplier drives the base negative", func() {
			weak := rules
			weak.HeatBonusMultiplier = decimal.RequireFromString("0.50")

			Convey("Then the bonus floors at zero", func() {
				// (3/2)*0.5 - 1 = -0.25 -> 0.
				So(scoring.HeatFromTotals(weak, 2, 1).IsZero(), ShouldBeTrue)
			})
		})
	})
}

func TestEngine_HeatBonus(t *testing.T) {
	engine := scoring.NewEngine()
	blitz := testBlitz()
	week1 := blitz.StartDate.Add(24 * time.Hour)

	approved := func(postID, authorID, ficID int64, words, chapters int) model.BlitzReview {
		return model.BlitzReview{
			BlitzID: blitz.ID,
			Review: model.Review{
				PostID:     postID,
				AuthorID:   authorID,
				FicID:      ficID,
				PostedDate: week1,
				WordCount:  words,
				Chapters:   chapters,
			},
			Approved:  true,
			HeatBonus: decimal.Zero,
		}
	}

	Convey("Given a blitz where member 2 gives far more than they receive", t, func() {
		// Member 2 authored fic 20 and reviewed 10 chapters of fic 30;
		// only 2 chapters of fic 20 have been reviewed back.
		snap := scoring.Snapshot{
			Reviews: []model.BlitzReview{
				approved(300, 2, 30, 10000, 10),
				approved(301, 1, 20, 2000, 2),
			},
			Users: map[int64]model.BlitzUser{
				1: {BlitzID: blitz.ID, MemberID: 1},
				2: {BlitzID: blitz.ID, MemberID: 2},
			},
			Fics: map[int64]model.Fic{
				20: {ID: 20, Title: "Fic Twenty", Authors: []int64{2}},
				30: {ID: 30, Title: "Fic Thirty", Authors: []int64{3}},
			},
			Members: map[int64]model.Member{
				1: {ID: 1, Username: "alice"},
				2: {ID: 2, Username: "bob"},
			},
		}

		Convey("When member 1's review of member 2's fic is approved", func() {
			bonus := engine.HeatBonus(snap.Reviews[1].Review, blitz, snap)

			Convey("Then the reviewer earns member 2's heat bonus", func() {
				So(bonus.StringFixed(2), ShouldEqual, "1.00")
			})
		})

		Convey("When the fic's author is not participating in the blitz", func() {
			delete(snap.Users, 2)
			bonus := engine.HeatBonus(snap.Reviews[1].Review, blitz, snap)

			Convey("Then no bonus is granted", func() {
				So(bonus.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the reviewer already earned heat from this author", func() {
			prior := approved(299, 1, 20, 1000, 1)
			prior.HeatBonus = decimal.RequireFromString("0.50")
			snap.Reviews = append(snap.Reviews, prior)
			bonus := engine.HeatBonus(snap.Reviews[1].Review, blitz, snap)

			Convey("Then the pair earns nothing a second time", func() {
				So(bonus.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the reviewed fic is unknown to the snapshot", func() {
			stray := model.Review{PostID: 310, AuthorID: 1, FicID: 99, PostedDate: week1, WordCount: 1000, Chapters: 1}
			bonus := engine.HeatBonus(stray, blitz, snap)

			Convey("Then no bonus is granted", func() {
				So(bonus.IsZero(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a co-authored fic whose authors have different heat", t, func() {
		snap := scoring.Snapshot{
			Reviews: []model.BlitzReview{
				approved(400, 2, 30, 10000, 10),
				approved(401, 3, 30, 2000, 2),
				approved(402, 1, 40, 1000, 1),
			},
			Users: map[int64]model.BlitzUser{
				1: {BlitzID: blitz.ID, MemberID: 1},
				2: {BlitzID: blitz.ID, MemberID: 2},
				3: {BlitzID: blitz.ID, MemberID: 3},
			},
			Fics: map[int64]model.Fic{
				30: {ID: 30, Title: "Solo Fic", Authors: []int64{4}},
				40: {ID: 40, Title: "Joint Fic", Authors: []int64{2, 3}},
			},
			Members: map[int64]model.Member{
				1: {ID: 1, Username: "alice"},
				2: {ID: 2, Username: "bob"},
				3: {ID: 3, Username: "carol"},
			},
		}

		Convey("When a review of the joint fic is approved", func() {
			bonus := engine.HeatBonus(snap.Reviews[2].Review, blitz, snap)

			Convey("Then the larger of the two authors' bonuses wins", func() {
				// Member 2: given 10, received 1 -> capped at tier-1 1.00.
				// Member 3: given 2, received 1 -> 0.50.
				So(bonus.StringFixed(2), ShouldEqual, "1.00")
			})
		})
	})
}

func TestSnapshot_ChapterTotals(t *testing.T) {
	rules := testRules()
	blitz := testBlitz()
	week1 := blitz.StartDate.Add(24 * time.Hour)

	Convey("Given a snapshot with a pending review mixed in", t, func() {
		snap := scoring.Snapshot{
			Reviews: []model.BlitzReview{
				{
					BlitzID:  blitz.ID,
					Review:   model.Review{PostID: 500, AuthorID: 1, FicID: 20, PostedDate: week1, WordCount: 3000, Chapters: 3},
					Approved: true,
				},
				{
					BlitzID: blitz.ID,
					Review:  model.Review{PostID: 501, AuthorID: 1, FicID: 20, PostedDate: week1, WordCount: 2000, Chapters: 2},
				},
			},
			Fics: map[int64]model.Fic{
				20: {ID: 20, Authors: []int64{2}},
			},
		}

		Convey("When summing chapters given and received", func() {
			Convey("Then only approved reviews count", func() {
				So(snap.ChaptersGiven(rules, 1), ShouldEqual, 3)
				So(snap.ChaptersReceived(rules, 2), ShouldEqual, 3)
			})
			Convey("Then uninvolved members total zero", func() {
				So(snap.ChaptersGiven(rules, 9), ShouldEqual, 0)
				So(snap.ChaptersReceived(rules, 9), ShouldEqual, 0)
			})
		})
	})
}
