package scoring_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/fanficforum/blitz/internal/domain/model"
	"github.com/fanficforum/blitz/internal/domain/scoring"
)

func testRules() model.ScoringRules {
	return model.ScoringRules{
		Name:                       "standard",
		MinWords:                   250,
		WordsPerChapter:            1000,
		ChapterPoints:              decimal.RequireFromString("1.00"),
		ConsecutiveChapterInterval: 5,
		ConsecutiveChapterBonus:    decimal.RequireFromString("0.50"),
		ThemeBonus:                 decimal.RequireFromString("0.50"),
		LongChapterBonusWords:      5000,
		LongChapterBonus:           decimal.RequireFromString("0.25"),
		HeatBonusMultiplier:        decimal.RequireFromString("1.00"),
		HeatBonusThresholdTier1:    5,
		HeatBonusThresholdTier2:    20,
		MaxHeatBonusTier0:          decimal.RequireFromString("0.50"),
		MaxHeatBonusTier1:          decimal.RequireFromString("1.00"),
		MaxHeatBonus:               decimal.RequireFromString("2.00"),
	}
}

func testBlitz(themes ...model.BlitzTheme) model.ReviewBlitz {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return model.ReviewBlitz{
		ID:        "blitz-1",
		Title:     "Summer Blitz",
		StartDate: start,
		EndDate:   start.Add(4 * 7 * 24 * time.Hour),
		Scoring:   testRules(),
		Themes:    themes,
	}
}

func review(postID int64, words, chapters int, posted time.Time) model.Review {
	return model.Review{
		PostID:     postID,
		AuthorID:   1,
		FicID:      10,
		PostedDate: posted,
		WordCount:  words,
		Chapters:   chapters,
	}
}

func TestEngine_Score(t *testing.T) {
	Convey("Given a scoring engine and a themeless blitz", t, func() {
		engine := scoring.NewEngine()
		blitz := testBlitz()
		week1 := blitz.StartDate.Add(24 * time.Hour)

		Convey("When scoring a first review of 4500 words over 5 chapters", func() {
			result := engine.Score(scoring.Input{
				Review: review(100, 4500, 5, week1),
				Blitz:  blitz,
			})

			Convey("Then word count caps the chapter credit at 4", func() {
				So(result.EffectiveChapters, ShouldEqual, 4)
				So(result.Score.StringFixed(2), ShouldEqual, "4.00")
				So(result.ThemeClaimed, ShouldBeFalse)
				So(result.Week, ShouldEqual, 1)
			})
		})

		Convey("When a second review pushes the fic total across a streak boundary", func() {
			prior := []model.BlitzReview{
				{BlitzID: blitz.ID, Review: review(100, 4500, 5, week1)},
			}
			result := engine.Score(scoring.Input{
				Review: review(101, 1200, 2, week1.Add(time.Hour)),
				Blitz:  blitz,
				Prior:  prior,
			})

			Convey("Then one streak bonus is added on top of the base point", func() {
				So(result.EffectiveChapters, ShouldEqual, 1)
				So(result.Score.StringFixed(2), ShouldEqual, "1.50")
			})
		})

		Convey("When a single review crosses two streak boundaries at once", func() {
			result := engine.Score(scoring.Input{
				Review: review(102, 10000, 10, week1),
				Blitz:  blitz,
			})

			Convey("Then both crossings are rewarded", func() {
				// 10 base points plus two interval crossings at 0.50 each.
				So(result.Score.StringFixed(2), ShouldEqual, "11.00")
			})
		})

		Convey("When the same chapters arrive split across reviews instead", func() {
			first := engine.Score(scoring.Input{
				Review: review(103, 6000, 6, week1),
				Blitz:  blitz,
			})
			second := engine.Score(scoring.Input{
				Review: review(104, 4000, 4, week1.Add(time.Hour)),
				Blitz:  blitz,
				Prior: []model.BlitzReview{
					{BlitzID: blitz.ID, Review: review(103, 6000, 6, week1)},
				},
			})

			Convey("Then the cumulative streak bonus matches the single-review case", func() {
				total := first.Score.Add(second.Score)
				So(total.StringFixed(2), ShouldEqual, "11.00")
			})
		})

		Convey("When a review supports zero effective chapters", func() {
			result := engine.Score(scoring.Input{
				Review:       review(105, 600, 1, week1),
				Blitz:        blitz,
				ThemeChecked: true,
			})

			Convey("Then the score is zero and nothing is claimed", func() {
				So(result.EffectiveChapters, ShouldEqual, 0)
				So(result.Score.StringFixed(2), ShouldEqual, "0.00")
				So(result.ThemeClaimed, ShouldBeFalse)
			})
		})

		Convey("When long chapters are attached", func() {
			chapters := []model.Chapter{
				{ID: 1, FicID: 10, Number: 1, WordCount: 6200},
				{ID: 2, FicID: 10, Number: 2, WordCount: 3000},
				{ID: 1, FicID: 10, Number: 1, WordCount: 6200},
			}
			result := engine.Score(scoring.Input{
				Review:       review(106, 2000, 2, week1),
				Blitz:        blitz,
				LongChapters: chapters,
			})

			Convey("Then only qualifying chapters earn the bonus, deduplicated by id", func() {
				So(len(result.LongChapters), ShouldEqual, 1)
				So(result.LongChapters[0].ID, ShouldEqual, 1)
				So(result.Score.StringFixed(2), ShouldEqual, "2.25")
			})
		})
	})
}

func TestEngine_ThemeClaims(t *testing.T) {
	engine := scoring.NewEngine()

	Convey("Given a per-review theme in week one", t, func() {
		theme := model.WeeklyTheme{
			ID:                             "t1",
			Name:                           "Fresh Starts",
			Claimable:                      model.ClaimPerReview,
			ConsecutiveChapterBonusApplies: true,
		}
		blitz := testBlitz(model.BlitzTheme{Week: 1, Theme: theme})
		week1 := blitz.StartDate.Add(24 * time.Hour)

		Convey("When the submitter checks the theme box", func() {
			result := engine.Score(scoring.Input{
				Review:       review(200, 3000, 3, week1),
				Blitz:        blitz,
				ThemeChecked: true,
			})

			Convey("Then exactly one theme bonus is claimed", func() {
				So(result.ThemeClaimed, ShouldBeTrue)
				So(result.Score.StringFixed(2), ShouldEqual, "3.50")
			})
		})

		Convey("When the submitter leaves the box unchecked", func() {
			result := engine.Score(scoring.Input{
				Review: review(201, 3000, 3, week1),
				Blitz:  blitz,
			})

			Convey("Then no bonus is claimed", func() {
				So(result.ThemeClaimed, ShouldBeFalse)
				So(result.Score.StringFixed(2), ShouldEqual, "3.00")
			})
		})

		Convey("When the review lands in a themeless week", func() {
			week2 := blitz.StartDate.Add(8 * 24 * time.Hour)
			result := engine.Score(scoring.Input{
				Review:       review(202, 3000, 3, week2),
				Blitz:        blitz,
				ThemeChecked: true,
			})

			Convey("Then checking the box changes nothing", func() {
				So(result.ThemeClaimed, ShouldBeFalse)
				So(result.Week, ShouldEqual, 2)
				So(result.Score.StringFixed(2), ShouldEqual, "3.00")
			})
		})
	})

	Convey("Given a per-chapter theme", t, func() {
		theme := model.WeeklyTheme{
			ID:                             "t2",
			Name:                           "Deep Dive",
			Claimable:                      model.ClaimPerChapter,
			ConsecutiveChapterBonusApplies: true,
		}
		blitz := testBlitz(model.BlitzTheme{Week: 1, Theme: theme})
		week1 := blitz.StartDate.Add(24 * time.Hour)

		Convey("When a three-chapter review claims it", func() {
			result := engine.Score(scoring.Input{
				Review:       review(210, 3000, 3, week1),
				Blitz:        blitz,
				ThemeChecked: true,
			})

			Convey("Then every effective chapter claims once", func() {
				So(result.ThemeClaimed, ShouldBeTrue)
				So(result.Score.StringFixed(2), ShouldEqual, "4.50")
			})
		})

		Convey("When the theme carries through subsequent chapters", func() {
			carry := theme
			carry.SubsequentChapterThemeBonus = true
			carryBlitz := testBlitz(model.BlitzTheme{Week: 1, Theme: carry})
			result := engine.Score(scoring.Input{
				Review:       review(211, 3000, 3, week1),
				Blitz:        carryBlitz,
				ThemeChecked: true,
			})

			Convey("Then the claim count still covers every chapter", func() {
				So(result.Score.StringFixed(2), ShouldEqual, "4.50")
			})
		})
	})

	Convey("Given a per-fic theme", t, func() {
		theme := model.WeeklyTheme{
			ID:                             "t3",
			Name:                           "New Fic Friday",
			Claimable:                      model.ClaimPerFic,
			ConsecutiveChapterBonusApplies: true,
		}
		blitz := testBlitz(model.BlitzTheme{Week: 1, Theme: theme})
		week1 := blitz.StartDate.Add(24 * time.Hour)

		Convey("When two reviews of the same fic claim it in the same week", func() {
			first := engine.Score(scoring.Input{
				Review:       review(220, 2000, 2, week1),
				Blitz:        blitz,
				ThemeChecked: true,
			})
			second := engine.Score(scoring.Input{
				Review:       review(221, 2000, 2, week1.Add(2*time.Hour)),
				Blitz:        blitz,
				ThemeChecked: true,
				Prior: []model.BlitzReview{
					{BlitzID: blitz.ID, Review: review(220, 2000, 2, week1), Theme: first.ThemeClaimed},
				},
			})

			Convey("Then only the first review claims the bonus", func() {
				So(first.ThemeClaimed, ShouldBeTrue)
				So(first.Score.StringFixed(2), ShouldEqual, "2.50")
				So(second.ThemeClaimed, ShouldBeFalse)
				So(second.Score.StringFixed(2), ShouldEqual, "2.00")
			})
		})

		Convey("When the prior claim happened in an earlier week", func() {
			week2Theme := model.BlitzTheme{Week: 2, Theme: theme}
			blitz2 := testBlitz(model.BlitzTheme{Week: 1, Theme: theme}, week2Theme)
			week2 := blitz2.StartDate.Add(8 * 24 * time.Hour)
			result := engine.Score(scoring.Input{
				Review:       review(222, 2000, 2, week2),
				Blitz:        blitz2,
				ThemeChecked: true,
				Prior: []model.BlitzReview{
					{BlitzID: blitz2.ID, Review: review(220, 2000, 2, week1), Theme: true},
				},
			})

			Convey("Then the new week allows a fresh claim", func() {
				So(result.ThemeClaimed, ShouldBeTrue)
			})
		})
	})

	Convey("Given a theme that suspends the streak bonus", t, func() {
		theme := model.WeeklyTheme{
			ID:        "t4",
			Name:      "No Streaks",
			Claimable: model.ClaimPerReview,
		}
		blitz := testBlitz(model.BlitzTheme{Week: 1, Theme: theme})
		week1 := blitz.StartDate.Add(24 * time.Hour)

		Convey("When a review would otherwise cross a streak boundary", func() {
			result := engine.Score(scoring.Input{
				Review: review(230, 1200, 2, week1),
				Blitz:  blitz,
				Prior: []model.BlitzReview{
					{BlitzID: blitz.ID, Review: review(100, 4500, 5, week1)},
				},
			})

			Convey("Then the crossing earns nothing while the theme is active", func() {
				So(result.Score.StringFixed(2), ShouldEqual, "1.00")
			})
		})
	})
}
