package courier

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

const (
	// RatingMinScore is the lowest score a customer can leave.
	RatingMinScore = 1
	// RatingMaxScore is the highest score a customer can leave.
	RatingMaxScore = 5
)

// Rating aggregates delivery scores for a courier.
// The zero value is a valid empty rating.
type Rating struct {
	totalScore int
	count      int
}

// NewRating creates an empty rating aggregate.
func NewRating() Rating {
	return Rating{}
}

// RestoreRating reconstructs a rating aggregate from persistent storage.
func RestoreRating(totalScore, count int) (Rating, error) {
	if count < 0 || totalScore < 0 {
		return Rating{}, errs.NewValueIsInvalidErrorWithCause(
			"rating is invalid", fmt.Errorf("total %d / count %d must not be negative", totalScore, count))
	}
	if count == 0 && totalScore != 0 {
		return Rating{}, errs.NewValueIsInvalidErrorWithCause(
			"rating is invalid", fmt.Errorf("total %d with zero count", totalScore))
	}

	return Rating{totalScore: totalScore, count: count}, nil
}

// Add records one delivery score in [RatingMinScore..RatingMaxScore].
func (r Rating) Add(score int) (Rating, error) {
	if score < RatingMinScore || score > RatingMaxScore {
		return Rating{}, errs.NewValueIsOutOfRangeError("score", score, RatingMinScore, RatingMaxScore)
	}

	return Rating{totalScore: r.totalScore + score, count: r.count + 1}, nil
}

// TotalScore returns the sum of all recorded scores.
func (r Rating) TotalScore() int {
	return r.totalScore
}

// Count returns the number of recorded scores.
func (r Rating) Count() int {
	return r.count
}

// Average returns the mean score, or 0 when no scores were recorded.
func (r Rating) Average() float64 {
	if r.count == 0 {
		return 0
	}
	return float64(r.totalScore) / float64(r.count)
}
