// Package parallel provides small helpers for running independent work on
// a bounded set of goroutines.
package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by concurrent
// workers. The zero value is ready to use.
type ErrorCollector struct {
	once sync.Once
	err  error
}

// SetError records err unless an error was already recorded. Nil errors
// are ignored.
func (c *ErrorCollector) SetError(err error) {
	if err != nil {
		c.once.Do(func() {
			c.err = err
		})
	}
}

// Err returns the first recorded error. Call it after the workers have
// finished.
func (c *ErrorCollector) Err() error {
	return c.err
}
