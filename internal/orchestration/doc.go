// Package orchestration runs one or more Fibonacci generators concurrently,
// cross-checks their results and hands them to a presenter. It decouples
// the calculation from the terminal through the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
