package icp

import "github.com/pkg/errors"

// Fatal engine conditions. These unwind to the driver; the context is not
// recoverable after any of them.
var (
	ErrTimestampOverflow = errors.New("bound timestamp counter overflow")
	ErrCanceled          = errors.New("partitioning canceled")
	ErrMemoryLimit       = errors.New("memory limit exceeded")
	ErrUnsplittable      = errors.New("node cannot be split")
)
