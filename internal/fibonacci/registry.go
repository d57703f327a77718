package fibonacci

import (
	"fmt"
	"slices"
	"sync"
)

// Registry keys of the built-in generators.
const (
	AlgorithmDoubling = "doubling"
	AlgorithmNaive    = "naive"
)

// CalculatorFactory resolves generators by registry key. It is not mocked:
// Register takes the unexported coreCalculator, so tests build a
// DefaultFactory instead.
type CalculatorFactory interface {
	// Create returns a fresh, uncached Calculator.
	Create(name string) (Calculator, error)
	// Get returns the shared Calculator for name.
	Get(name string) (Calculator, error)
	// List returns the registry keys in sorted order.
	List() []string
	Register(name string, creator func() coreCalculator) error
	GetAll() map[string]Calculator
}

// DefaultFactory is a CalculatorFactory safe for concurrent use. Each
// Calculator is built on first use and then shared.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() coreCalculator
	shared   map[string]Calculator
}

// NewDefaultFactory returns a factory holding AlgorithmDoubling and
// AlgorithmNaive.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: map[string]func() coreCalculator{
			AlgorithmDoubling: func() coreCalculator { return &DoublingCalculator{} },
			AlgorithmNaive:    func() coreCalculator { return &NaiveCalculator{} },
		},
		shared: make(map[string]Calculator),
	}
	return f
}

func unknownCalculator(name string) error {
	return fmt.Errorf("unknown calculator: %s", name)
}

// Register adds or replaces the generator stored under name.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if name == "" || creator == nil {
		return fmt.Errorf("invalid registration for calculator %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.shared, name)
	return nil
}

// Create builds a new Calculator for name without caching it.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, unknownCalculator(name)
	}
	return NewCalculator(creator()), nil
}

// Get returns the shared Calculator for name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	calc, ok := f.shared[name]
	f.mu.RUnlock()
	if ok {
		return calc, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sharedLocked(name)
}

// sharedLocked returns the cached Calculator for name, building it when
// absent. f.mu must be held for writing.
func (f *DefaultFactory) sharedLocked(name string) (Calculator, error) {
	if calc, ok := f.shared[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, unknownCalculator(name)
	}
	calc := NewCalculator(creator())
	f.shared[name] = calc
	return calc, nil
}

func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetAll returns every registered Calculator keyed by name. The map is a
// copy.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make(map[string]Calculator, len(f.creators))
	for name := range f.creators {
		calc, _ := f.sharedLocked(name)
		all[name] = calc
	}
	return all
}

// MustGet is Get for keys known at compile time; it panics on a miss.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic("fibonacci: " + err.Error())
	}
	return calc
}

func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory { return globalFactory }
