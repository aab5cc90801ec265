package courier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/pkg/errs"
)

func Test_NewRating(t *testing.T) {
	rating := NewRating()

	assert.Equal(t, 0, rating.TotalScore())
	assert.Equal(t, 0, rating.Count())
	assert.Equal(t, 0.0, rating.Average())
}

func Test_RestoreRating(t *testing.T) {
	tests := map[string]struct {
		totalScore int
		count      int
		valid      bool
	}{
		"empty":            {0, 0, true},
		"regular":          {12, 3, true},
		"negative total":   {-1, 1, false},
		"negative count":   {5, -1, false},
		"total w/o scores": {5, 0, false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			rating, err := RestoreRating(test.totalScore, test.count)

			if test.valid {
				assert.NoError(t, err)
				assert.Equal(t, test.totalScore, rating.TotalScore())
				assert.Equal(t, test.count, rating.Count())
			} else {
				assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			}
		})
	}
}

func Test_RatingAdd(t *testing.T) {
	rating := NewRating()

	rating, err := rating.Add(5)
	assert.NoError(t, err)
	rating, err = rating.Add(4)
	assert.NoError(t, err)

	assert.Equal(t, 9, rating.TotalScore())
	assert.Equal(t, 2, rating.Count())
	assert.InDelta(t, 4.5, rating.Average(), 1e-9)
}

func Test_RatingAddOutOfRange(t *testing.T) {
	rating := NewRating()

	for _, score := range []int{0, -1, 6} {
		_, err := rating.Add(score)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	}
}
