package pipeline

import "errors"

var (
	// ErrPreprocessing marks failures before zone detection: unreadable
	// files, corrupt or unsupported image data.
	ErrPreprocessing = errors.New("preprocessing failed")

	// ErrPipelineAborted marks a run cut short by context cancellation
	// or deadline. Partial results are discarded.
	ErrPipelineAborted = errors.New("pipeline aborted")
)
