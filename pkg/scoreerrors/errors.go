// Package scoreerrors defines the error kinds shared by every scorekeeper module.
package scoreerrors

import (
	"errors"
	"fmt"
)

var (
	ErrFieldTooLong              = errors.New("field too long")
	ErrNotAuthorized             = errors.New("caller is not authorized")
	ErrMissingApproval           = errors.New("missing approval from account owner")
	ErrScoreOutOfBounds          = errors.New("score out of bounds")
	ErrInsufficientCapacityFunds = errors.New("insufficient funds to grow capacity")
	ErrParticipantNotInMerge     = errors.New("participant is not part of merge")
	ErrDuplicateClaim            = errors.New("reward already claimed")
	ErrNoRewardAvailable         = errors.New("no reward available")

	// ErrNotFound is wrapped by every repository's not-found error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is wrapped by input validation errors that have no
	// dedicated kind.
	ErrInvalidArgument = errors.New("invalid argument")
)

// FieldTooLongError reports which field exceeded its limit.
type FieldTooLongError struct {
	Field string
	Max   int
	Got   int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s: %s is %d characters, max %d", ErrFieldTooLong, e.Field, e.Got, e.Max)
}

func (e *FieldTooLongError) Unwrap() error {
	return ErrFieldTooLong
}

// CheckLength returns a FieldTooLongError when value is longer than max runes.
func CheckLength(field, value string, max int) error {
	if n := len([]rune(value)); n > max {
		return &FieldTooLongError{Field: field, Max: max, Got: n}
	}
	return nil
}

// IsDomain reports whether err is one of the shared domain error kinds.
func IsDomain(err error) bool {
	for _, kind := range []error{
		ErrFieldTooLong,
		ErrNotAuthorized,
		ErrMissingApproval,
		ErrScoreOutOfBounds,
		ErrInsufficientCapacityFunds,
		ErrParticipantNotInMerge,
		ErrDuplicateClaim,
		ErrNoRewardAvailable,
		ErrNotFound,
		ErrInvalidArgument,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
