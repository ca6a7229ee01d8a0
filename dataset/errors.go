package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when no audio files are found.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrSampleUnavailable is matched by SampleUnavailableError.
	ErrSampleUnavailable = errors.New("sample unavailable")

	// ErrSampleRateMismatch is returned when the mel transform and the
	// dataset disagree on the sample rate.
	ErrSampleRateMismatch = errors.New("sample rate mismatch")
)

// DurationError reports a decoded file outside the accepted duration range.
type DurationError struct {
	Path    string
	Seconds float64
	Range   DurationRange
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("%s: duration %.3fs outside [%g, %g)", e.Path, e.Seconds, e.Range.Min, e.Range.Max)
}

// SampleUnavailableError is returned by Get when every attempt failed.
type SampleUnavailableError struct {
	Index    int
	Attempts int
	Err      error // last failure
}

func (e *SampleUnavailableError) Error() string {
	return fmt.Sprintf("sample %d unavailable after %d attempts: %v", e.Index, e.Attempts, e.Err)
}

func (e *SampleUnavailableError) Unwrap() []error {
	return []error{ErrSampleUnavailable, e.Err}
}
