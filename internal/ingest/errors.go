package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnavailable marks sources whose export could not be fetched.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrLayoutNotFound marks grids with no recognizable header row.
	ErrLayoutNotFound = errors.New("layout not found")
	// ErrStoreConflict marks persistence failures.
	ErrStoreConflict = errors.New("store failure")
	// ErrTransient marks failures worth retrying on a later run.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes source context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, scriptKey, operation string, err error) error {
	detail := buildDetail(scriptKey, operation)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Skippable reports whether the error means the source should be skipped
// rather than counted as a failure.
func Skippable(err error) bool {
	return errors.Is(err, ErrLayoutNotFound)
}

func buildDetail(scriptKey, operation string) string {
	parts := make([]string, 0, 2)
	if scriptKey = strings.TrimSpace(scriptKey); scriptKey != "" {
		parts = append(parts, scriptKey)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "ingest failure"
	}
	return strings.Join(parts, ": ")
}
