package srs

import (
	"errors"
	"time"

	"github.com/studydeck/studydeck-api/internal/domain"
)

// ErrInvalidRating is returned when a rating outside the three-valued
// enum reaches the scheduler.
var ErrInvalidRating = errors.New("invalid review rating")

// Difficulty bounds and drift step for the review scheduler.
const (
	MinDifficulty   = 1.0
	MaxDifficulty   = 3.0
	difficultyDrift = 0.2
)

// reviewIntervals maps each rating to its fixed sequence of review
// intervals in whole days, indexed by the number of prior reviews. Once a
// card has been reviewed at least as many times as a sequence has entries
// the interval saturates at the last value; it never grows beyond the
// table.
var reviewIntervals = map[domain.ReviewRating][]int{
	domain.RatingEasy:   {1, 3, 7, 14, 30, 60},
	domain.RatingMedium: {1, 2, 4, 7, 15, 30},
	domain.RatingHard:   {1, 1, 2, 3, 5, 7},
}

// baseDifficulty maps each rating to the difficulty score it anchors.
var baseDifficulty = map[domain.ReviewRating]float64{
	domain.RatingEasy:   1.0,
	domain.RatingMedium: 2.0,
	domain.RatingHard:   3.0,
}

// Result holds the outcome of scheduling a single review.
type Result struct {
	// NextReview is when the card becomes due again.
	NextReview time.Time

	// Difficulty is the card's updated difficulty score, in
	// [MinDifficulty, MaxDifficulty].
	Difficulty float64
}

// ComputeNextReview computes the next review date and updated difficulty
// for a card rated with the given rating after reviewCount completed
// reviews. It is a pure function: the caller persists the result.
//
// The interval is taken from the rating's table at index
// min(reviewCount, len-1), and added to now as whole calendar days so the
// time of day is preserved. Difficulty starts from the rating's base
// score; after more than one prior review an easy rating drifts it down
// by 0.2 and a hard rating drifts it up by 0.2, clamped to
// [MinDifficulty, MaxDifficulty]. The drift never compounds: every call
// recomputes from the rating's fixed base.
//
// reviewCount must be non-negative. Returns ErrInvalidRating for a rating
// outside the enum.
func ComputeNextReview(
	rating domain.ReviewRating,
	reviewCount int,
	now time.Time,
) (Result, error) {
	intervals, ok := reviewIntervals[rating]
	if !ok {
		return Result{}, ErrInvalidRating
	}

	index := reviewCount
	if index > len(intervals)-1 {
		index = len(intervals) - 1
	}
	days := intervals[index]

	difficulty := baseDifficulty[rating]
	if reviewCount > 1 {
		switch rating {
		case domain.RatingEasy:
			difficulty -= difficultyDrift
			if difficulty < MinDifficulty {
				difficulty = MinDifficulty
			}
		case domain.RatingHard:
			difficulty += difficultyDrift
			if difficulty > MaxDifficulty {
				difficulty = MaxDifficulty
			}
		}
	}

	return Result{
		NextReview: now.AddDate(0, 0, days),
		Difficulty: difficulty,
	}, nil
}

// IntervalDays returns the interval, in whole days, the scheduler would
// choose for the given rating and prior review count. Exposed so callers
// can surface the schedule to users without recomputing dates.
func IntervalDays(rating domain.ReviewRating, reviewCount int) (int, error) {
	intervals, ok := reviewIntervals[rating]
	if !ok {
		return 0, ErrInvalidRating
	}

	index := reviewCount
	if index > len(intervals)-1 {
		index = len(intervals) - 1
	}
	return intervals[index], nil
}
