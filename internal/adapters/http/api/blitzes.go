package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fanficforum/blitz/internal/domain/model"
)

// BlitzesHandler handles blitz administration and history, plus the fic
// and chapter mirrors the submission flow validates against.
type BlitzesHandler struct {
	deps Dependencies
}

// NewBlitzesHandler creates a new blitzes handler.
func NewBlitzesHandler(deps Dependencies) *BlitzesHandler {
	return &BlitzesHandler{deps: deps}
}

type themeRequest struct {
	Week                           int    `json:"week"`
	Name                           string `json:"name"`
	Description                    string `json:"description"`
	Claimable                      string `json:"claimable"`
	SubsequentChapterThemeBonus    bool   `json:"subsequent_chapter_theme_bonus"`
	ConsecutiveChapterBonusApplies bool   `json:"consecutive_chapter_bonus_applies"`
}

type blitzRequest struct {
	Title     string         `json:"title"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Scoring   scoringRequest `json:"scoring"`
	Themes    []themeRequest `json:"themes"`
}

type scoringRequest struct {
	Name                       string          `json:"name"`
	MinWords                   int             `json:"min_words"`
	WordsPerChapter            int             `json:"words_per_chapter"`
	ChapterPoints              decimal.Decimal `json:"chapter_points"`
	ConsecutiveChapterInterval int             `json:"consecutive_chapter_interval"`
	ConsecutiveChapterBonus    decimal.Decimal `json:"consecutive_chapter_bonus"`
	ThemeBonus                 decimal.Decimal `json:"theme_bonus"`
	LongChapterBonusWords      int             `json:"long_chapter_bonus_words"`
	LongChapterBonus           decimal.Decimal `json:"long_chapter_bonus"`
	HeatBonusMultiplier        decimal.Decimal `json:"heat_bonus_multiplier"`
	HeatBonusThresholdTier1    int             `json:"heat_bonus_threshold_tier_1"`
	HeatBonusThresholdTier2    int             `json:"heat_bonus_threshold_tier_2"`
	MaxHeatBonusTier0          decimal.Decimal `json:"max_heat_bonus_tier_0"`
	MaxHeatBonusTier1          decimal.Decimal `json:"max_heat_bonus_tier_1"`
	MaxHeatBonus               decimal.Decimal `json:"max_heat_bonus"`
}

type blitzResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Current   bool      `json:"current"`
}

type ficRequest struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Authors []int64 `json:"authors"`
}

type chapterRequest struct {
	ID        int64 `json:"id"`
	FicID     int64 `json:"fic_id"`
	Number    int   `json:"number"`
	WordCount int   `json:"word_count"`
}

// HandleBlitzes handles GET /blitzes (current plus history) and
// POST /blitzes (register a new blitz).
func (h *BlitzesHandler) HandleBlitzes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *BlitzesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	var out []blitzResponse
	if current, err := h.deps.CurrentBlitz(r.Context()); err == nil {
		out = append(out, blitzResponse{
			ID: current.ID, Title: current.Title,
			StartDate: current.StartDate, EndDate: current.EndDate, Current: true,
		})
	}
	past, err := h.deps.PastBlitzes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	for _, b := range past {
		out = append(out, blitzResponse{
			ID: b.ID, Title: b.Title, StartDate: b.StartDate, EndDate: b.EndDate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BlitzesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req blitzRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid start_date; must be RFC3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil || !end.After(start) {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid end_date; must be RFC3339 after start_date"))
		return
	}

	b := model.ReviewBlitz{
		ID:        uuid.New().String(),
		Title:     req.Title,
		StartDate: start,
		EndDate:   end,
		Scoring: model.ScoringRules{
			Name:                       req.Scoring.Name,
			MinWords:                   req.Scoring.MinWords,
			WordsPerChapter:            req.Scoring.WordsPerChapter,
			ChapterPoints:              req.Scoring.ChapterPoints,
			ConsecutiveChapterInterval: req.Scoring.ConsecutiveChapterInterval,
			ConsecutiveChapterBonus:    req.Scoring.ConsecutiveChapterBonus,
			ThemeBonus:                 req.Scoring.ThemeBonus,
			LongChapterBonusWords:      req.Scoring.LongChapterBonusWords,
			LongChapterBonus:           req.Scoring.LongChapterBonus,
			HeatBonusMultiplier:        req.Scoring.HeatBonusMultiplier,
			HeatBonusThresholdTier1:    req.Scoring.HeatBonusThresholdTier1,
			HeatBonusThresholdTier2:    req.Scoring.HeatBonusThresholdTier2,
			MaxHeatBonusTier0:          req.Scoring.MaxHeatBonusTier0,
			MaxHeatBonusTier1:          req.Scoring.MaxHeatBonusTier1,
			MaxHeatBonus:               req.Scoring.MaxHeatBonus,
		},
	}
	for _, t := range req.Themes {
		b.Themes = append(b.Themes, model.BlitzTheme{
			Week: t.Week,
			Theme: model.WeeklyTheme{
				ID:                             uuid.New().String(),
				Name:                           t.Name,
				Description:                    t.Description,
				Claimable:                      model.ClaimPolicy(t.Claimable),
				SubsequentChapterThemeBonus:    t.SubsequentChapterThemeBonus,
				ConsecutiveChapterBonusApplies: t.ConsecutiveChapterBonusApplies,
			},
		})
	}
	if err := h.deps.RegisterBlitz(r.Context(), b); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, blitzResponse{
		ID: b.ID, Title: b.Title, StartDate: b.StartDate, EndDate: b.EndDate,
	})
}

// HandlePostFic handles POST /fics requests.
func (h *BlitzesHandler) HandlePostFic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ficRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.ID == 0 || len(req.Authors) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing id or authors"))
		return
	}
	if err := h.deps.RegisterFic(r.Context(), model.Fic{ID: req.ID, Title: req.Title, Authors: req.Authors}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// HandlePostChapter handles POST /chapters requests.
func (h *BlitzesHandler) HandlePostChapter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req chapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.ID == 0 || req.FicID == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing id or fic_id"))
		return
	}
	if err := h.deps.RegisterChapter(r.Context(), model.Chapter{
		ID: req.ID, FicID: req.FicID, Number: req.Number, WordCount: req.WordCount,
	}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}
