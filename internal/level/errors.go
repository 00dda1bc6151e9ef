package level

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLevelIndex reports a level index outside the pack.
	ErrInvalidLevelIndex = errors.New("level: invalid level index")
	// ErrInvalidDescriptor reports a level file that cannot be built.
	ErrInvalidDescriptor = errors.New("level: invalid descriptor")
)

// InvalidLevelIndexError carries the rejected index and the pack size.
type InvalidLevelIndexError struct {
	Index int
	Count int
}

func (e *InvalidLevelIndexError) Error() string {
	return fmt.Sprintf("level: index %d out of range [0, %d)", e.Index, e.Count)
}

// Is matches ErrInvalidLevelIndex.
func (e *InvalidLevelIndexError) Is(target error) bool {
	return target == ErrInvalidLevelIndex
}

func descriptorError(id, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidDescriptor, id, fmt.Sprintf(format, args...))
}
