package progress

import "sync"

// ─────────────────────────────────────────────────────────────────────────────
// Observer and Subject
// ─────────────────────────────────────────────────────────────────────────────

// ProgressObserver receives progress notifications from a ProgressSubject.
type ProgressObserver interface {
	// Update is called synchronously for each notification; implementations
	// must not block.
	Update(calcIndex int, progress float64)
}

// ProgressSubject fans progress notifications out to registered observers
// in registration order. It is safe for concurrent use.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject returns a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes the first registration of observer, if any.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify delivers one update to every observer.
func (s *ProgressSubject) Notify(calcIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(calcIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressCallback binds the subject to calcIndex so that generators can
// report through a plain callback.
func (s *ProgressSubject) AsProgressCallback(calcIndex int) ProgressCallback {
	return func(progress float64) {
		s.Notify(calcIndex, progress)
	}
}

// Freeze snapshots the current observers and returns a callback bound to
// calcIndex that notifies only that snapshot without taking the lock.
// Observers registered afterwards are not notified by it.
func (s *ProgressSubject) Freeze(calcIndex int) ProgressCallback {
	s.mu.RLock()
	snapshot := make([]ProgressObserver, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	return func(progress float64) {
		for _, o := range snapshot {
			o.Update(calcIndex, progress)
		}
	}
}
