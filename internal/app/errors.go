package app

import "errors"

// Validation sentinels surfaced to the submitting member. All of these are
// detected before the scoring engine runs.
var (
	ErrNoBlitz            = errors.New("no blitz is currently running")
	ErrReviewTooShort     = errors.New("review is below the minimum word count")
	ErrReviewOutOfWindow  = errors.New("review was not posted during the blitz")
	ErrReviewNotByUser    = errors.New("review was not written by the submitting member")
	ErrAlreadySubmitted   = errors.New("review has already been submitted")
	ErrChapterFicMismatch = errors.New("linked chapter belongs to a different fic")
)
