package stakerlog

import (
	"errors"
	"fmt"
)

// ErrDecompression is returned when the fetched payload is not a valid
// gzip stream or the stream is corrupt.
var ErrDecompression = errors.New("invalid gzip stream")

// NetworkError wraps a transport-level fetch failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch staker log: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch staker log: unexpected status %s", e.Status)
}

// SizeLimitError is returned when the payload exceeds a size ceiling.
// The check fires before the next processing stage runs, so a hostile
// or corrupted payload cannot blow up memory.
type SizeLimitError struct {
	Stage    string // "compressed" or "decompressed"
	Measured int64  // bytes observed before aborting (at least Limit+1)
	Limit    int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("staker log %s size %d exceeds limit %d", e.Stage, e.Measured, e.Limit)
}
