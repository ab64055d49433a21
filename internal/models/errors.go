package models

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when an upstream answers successfully but with nothing usable
var ErrNoData = errors.New("no data returned")

// FetchError records which upstream call failed
type FetchError struct {
	Source     string // "tides", "wind", "marine"
	Op         string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d: %v", e.Source, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNoData reports whether err means the upstream returned an empty result
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
