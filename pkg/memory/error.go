package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyContent is returned when a record has no content.
	ErrEmptyContent = errors.New("memory content is empty")

	// ErrNoTags is returned when a record has no tags.
	ErrNoTags = errors.New("memory has no tags")
)

// ImportanceRangeError is returned when a record's importance lies outside
// [MinImportance, MaxImportance].
type ImportanceRangeError struct {
	Value float64
}

func (e ImportanceRangeError) Error() string {
	return fmt.Sprintf("importance %.2f outside [%.1f, %.1f]", e.Value, MinImportance, MaxImportance)
}
