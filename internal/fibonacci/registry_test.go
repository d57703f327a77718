package fibonacci

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/agbru/fibdrv/internal/bignum"
)

type constCalculator struct{ v uint64 }

func (c *constCalculator) Name() string { return "const" }

func (c *constCalculator) CalculateCore(context.Context, ProgressCallback, uint64, Options) (*bignum.BigUint, error) {
	return bignum.NewFromUint64(c.v), nil
}

func TestDefaultFactoryBuiltins(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	if got := f.List(); !slices.Equal(got, []string{AlgorithmDoubling, AlgorithmNaive}) {
		t.Errorf("List() = %v", got)
	}
	for _, name := range f.List() {
		if !f.Has(name) {
			t.Errorf("Has(%q) = false", name)
		}
	}
	if f.Has("fft") {
		t.Error("Has(\"fft\") = true")
	}
	if !strings.Contains(f.MustGet(AlgorithmDoubling).Name(), "Doubling") {
		t.Errorf("unexpected doubling name %q", f.MustGet(AlgorithmDoubling).Name())
	}
}

func TestDefaultFactoryGetCaches(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	a, err := f.Get(AlgorithmNaive)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := f.Get(AlgorithmNaive)
	if a != b {
		t.Error("Get returned different instances")
	}
	c, err := f.Create(AlgorithmNaive)
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Error("Create returned the cached instance")
	}
	if _, err := f.Get("nope"); err == nil {
		t.Error("Get(unknown) succeeded")
	}
	if _, err := f.Create("nope"); err == nil {
		t.Error("Create(unknown) succeeded")
	}
}

func TestDefaultFactoryRegisterReplaces(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	before, _ := f.Get(AlgorithmNaive)
	if err := f.Register(AlgorithmNaive, func() coreCalculator { return &constCalculator{v: 7} }); err != nil {
		t.Fatal(err)
	}
	after, _ := f.Get(AlgorithmNaive)
	if before == after {
		t.Fatal("Register did not drop the cached instance")
	}
	got, err := after.Calculate(context.Background(), nil, 0, 500, Options{})
	if err != nil || got.Uint64() != 7 {
		t.Errorf("replacement returned %v, %v", got, err)
	}
	if err := f.Register("", func() coreCalculator { return &NaiveCalculator{} }); err == nil {
		t.Error("Register with empty name succeeded")
	}
	if err := f.Register("x", nil); err == nil {
		t.Error("Register with nil creator succeeded")
	}
}

func TestDefaultFactoryMustGetPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("MustGet(unknown) did not panic")
		}
	}()
	NewDefaultFactory().MustGet("missing")
}

func TestDefaultFactoryConcurrentAccess(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				_ = f.Register("extra", func() coreCalculator { return &constCalculator{v: uint64(i)} })
			}
			_ = f.GetAll()
			_, _ = f.Get(AlgorithmDoubling)
			_ = f.List()
		}(i)
	}
	wg.Wait()
	if len(f.GetAll()) != 3 {
		t.Errorf("GetAll() has %d entries, want 3", len(f.GetAll()))
	}
}

func TestGlobalFactory(t *testing.T) {
	t.Parallel()
	if GlobalFactory() != globalFactory {
		t.Error("GlobalFactory returned a different instance")
	}
	if !GlobalFactory().Has(AlgorithmDoubling) {
		t.Error("global factory lacks the doubling generator")
	}
}
