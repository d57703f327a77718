package fibonacci

import "github.com/agbru/fibdrv/internal/progress"

// Re-exports of the progress types that appear in the generator API, so
// that callers need only this package.
type (
	ProgressUpdate   = progress.ProgressUpdate
	ProgressCallback = progress.ProgressCallback
	ProgressSubject  = progress.ProgressSubject
)

var (
	NewProgressSubject = progress.NewProgressSubject
	NewChannelObserver = progress.NewChannelObserver
)
