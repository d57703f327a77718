// Package progress carries progress events from the Fibonacci generators to
// whatever is watching them: the CLI spinner, the TUI dashboard, the logger.
//
// Generators report through a ProgressCallback. A ProgressSubject fans each
// report out to its registered ProgressObserver values, and ChannelObserver
// bridges the subject to the channel-based presentation layer.
package progress
