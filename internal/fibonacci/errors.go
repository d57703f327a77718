package fibonacci

import (
	"errors"

	apperrors "github.com/agbru/fibdrv/internal/errors"
)

// ErrNegativeIndex is the cause of the ValidationError returned for k < 0.
var ErrNegativeIndex = errors.New("fibonacci: negative index")

// validateIndex converts a signed index, rejecting negative values.
func validateIndex(k int64) (uint64, error) {
	if k < 0 {
		return 0, apperrors.ValidationError{
			Field:   "n",
			Message: "must be non-negative",
			Cause:   ErrNegativeIndex,
		}
	}
	return uint64(k), nil
}
