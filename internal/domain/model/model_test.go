package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/fanficforum/blitz/internal/domain/model"
)

func rules() model.ScoringRules {
	return model.ScoringRules{
		WordsPerChapter:         1000,
		HeatBonusThresholdTier1: 5,
		HeatBonusThresholdTier2: 20,
		MaxHeatBonusTier0:       decimal.RequireFromString("0.50"),
		MaxHeatBonusTier1:       decimal.RequireFromString("1.00"),
		MaxHeatBonus:            decimal.RequireFromString("2.00"),
	}
}

func TestScoringRules_EffectiveChapters(t *testing.T) {
	Convey("Given standard scoring rules", t, func() {
		r := rules()

		Convey("When the word count supports fewer chapters than declared", func() {
			So(r.EffectiveChapters(4500, 5), ShouldEqual, 4)
		})

		Convey("When the declared chapters are below what the words support", func() {
			So(r.EffectiveChapters(4500, 2), ShouldEqual, 2)
		})

		Convey("When the review is shorter than one chapter's worth", func() {
			So(r.EffectiveChapters(999, 3), ShouldEqual, 0)
		})

		Convey("When the inputs are zero", func() {
			So(r.EffectiveChapters(0, 0), ShouldEqual, 0)
			So(r.EffectiveChapters(0, 5), ShouldEqual, 0)
		})

		Convey("When the words-per-chapter divisor is unset", func() {
			broken := r
			broken.WordsPerChapter = 0
			So(broken.EffectiveChapters(4500, 5), ShouldEqual, 0)
		})
	})
}

func TestScoringRules_HeatCap(t *testing.T) {
	Convey("Given tiered heat caps", t, func() {
		r := rules()

		Convey("When chapters given sit below the first threshold", func() {
			So(r.HeatCap(0).StringFixed(2), ShouldEqual, "0.50")
			So(r.HeatCap(4).StringFixed(2), ShouldEqual, "0.50")
		})

		Convey("When chapters given reach a threshold exactly", func() {
			So(r.HeatCap(5).StringFixed(2), ShouldEqual, "1.00")
			So(r.HeatCap(20).StringFixed(2), ShouldEqual, "2.00")
		})

		Convey("When chapters given land between thresholds", func() {
			So(r.HeatCap(12).StringFixed(2), ShouldEqual, "1.00")
			So(r.HeatCap(100).StringFixed(2), ShouldEqual, "2.00")
		})
	})
}

func TestReviewBlitz_Window(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	blitz := model.ReviewBlitz{
		ID:        "b1",
		StartDate: start,
		EndDate:   start.Add(28 * 24 * time.Hour),
	}

	Convey("Given a four-week blitz", t, func() {
		Convey("When checking the window bounds", func() {
			Convey("Then the start is inclusive and the end exclusive", func() {
				So(blitz.Contains(start), ShouldBeTrue)
				So(blitz.Contains(blitz.EndDate), ShouldBeFalse)
				So(blitz.Contains(start.Add(-time.Second)), ShouldBeFalse)
				So(blitz.Contains(blitz.EndDate.Add(-time.Second)), ShouldBeTrue)
			})
		})

		Convey("When mapping times to blitz weeks", func() {
			Convey("Then weeks are one-based and boundaries roll forward", func() {
				So(blitz.WeekOf(start), ShouldEqual, 1)
				So(blitz.WeekOf(start.Add(7*24*time.Hour-time.Second)), ShouldEqual, 1)
				So(blitz.WeekOf(start.Add(7*24*time.Hour)), ShouldEqual, 2)
				So(blitz.WeekOf(start.Add(27*24*time.Hour)), ShouldEqual, 4)
			})
		})
	})
}

func TestReviewBlitz_ThemeForWeek(t *testing.T) {
	Convey("Given a blitz with themes on weeks one and three", t, func() {
		blitz := model.ReviewBlitz{
			Themes: []model.BlitzTheme{
				{Week: 1, Theme: model.WeeklyTheme{ID: "a", Name: "Openers"}},
				{Week: 3, Theme: model.WeeklyTheme{ID: "b", Name: "Finales"}},
			},
		}

		Convey("When looking up themes by week", func() {
			So(blitz.ThemeForWeek(1).Name, ShouldEqual, "Openers")
			So(blitz.ThemeForWeek(3).Name, ShouldEqual, "Finales")
			So(blitz.ThemeForWeek(2), ShouldBeNil)
			So(blitz.ThemeForWeek(4), ShouldBeNil)
		})
	})
}

func TestCurrentBlitz(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	past := model.ReviewBlitz{ID: "past", StartDate: start.Add(-60 * 24 * time.Hour), EndDate: start.Add(-32 * 24 * time.Hour)}
	active := model.ReviewBlitz{ID: "active", StartDate: start, EndDate: start.Add(28 * 24 * time.Hour)}

	Convey("Given a mix of past and active blitzes", t, func() {
		Convey("When now falls inside a window", func() {
			got, ok := model.CurrentBlitz(start.Add(24*time.Hour), []model.ReviewBlitz{past, active})
			So(ok, ShouldBeTrue)
			So(got.ID, ShouldEqual, "active")
		})

		Convey("When no window contains now", func() {
			got, ok := model.CurrentBlitz(start.Add(40*24*time.Hour), []model.ReviewBlitz{past, active})

			Convey("Then the latest by start date wins", func() {
				So(ok, ShouldBeTrue)
				So(got.ID, ShouldEqual, "active")
			})
		})

		Convey("When no blitz exists at all", func() {
			_, ok := model.CurrentBlitz(start, nil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFic_AuthoredBy(t *testing.T) {
	Convey("Given a co-authored fic", t, func() {
		fic := model.Fic{ID: 1, Title: "Joint Work", Authors: []int64{2, 3}}

		Convey("When checking authorship", func() {
			So(fic.AuthoredBy(2), ShouldBeTrue)
			So(fic.AuthoredBy(3), ShouldBeTrue)
			So(fic.AuthoredBy(4), ShouldBeFalse)
		})
	})
}
