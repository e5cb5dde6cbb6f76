package scoped

import (
	"errors"
	"fmt"

	"github.com/roach88/ndk/internal/assume"
)

// UsageCode categorizes scope misuse.
type UsageCode string

const (
	// CodeNoOpenScope indicates a discharge with no hypothesis open.
	CodeNoOpenScope UsageCode = "NoOpenScope"

	// CodeOutOfOrder indicates a discharge of a label that is not the innermost open one.
	CodeOutOfOrder UsageCode = "OutOfOrder"
)

// UsageError reports misuse of a Stack. It is distinct from
// kernel.RuleError: the kernel was never asked to do anything.
type UsageError struct {
	Code UsageCode

	// Label is the label the caller asked to discharge.
	Label assume.Label

	// Innermost is the label that was actually on top, if any.
	Innermost assume.Label
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	switch e.Code {
	case CodeNoOpenScope:
		return fmt.Sprintf("%s: discharge %s with no open scope", e.Code, e.Label)
	case CodeOutOfOrder:
		return fmt.Sprintf("%s: discharge %s but innermost open scope is %s", e.Code, e.Label, e.Innermost)
	default:
		return fmt.Sprintf("%s: label %s", e.Code, e.Label)
	}
}

// IsUsageError returns true if err is a *UsageError.
// Uses errors.As to handle wrapped errors.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
