// Command generate-golden writes the reference values checked by the
// generator tests, computed independently with math/big.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"golang.org/x/crypto/sha3"

	"github.com/agbru/fibdrv/internal/parallel"
)

// GoldenData is one entry of the golden file.
type GoldenData struct {
	N      uint64 `json:"n"`
	Result string `json:"result"`
	Digits int    `json:"digits"`
	SHA3   string `json:"sha3_256"`
}

// targets covers the base cases, the one-limb boundary at 93/94, powers of
// two and ten, and the default device maximum.
var targets = []uint64{
	0, 1, 2, 3, 4, 5, 10, 20, 50, 92, 93, 94, 100,
	128, 256, 512, 1000, 1024,
	2000, 2048, 5000, 8192, 10000,
}

func main() {
	outputDir := flag.String("out", "internal/fibonacci/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := run(*outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := generate(context.Background(), targets)
	if err != nil {
		return err
	}

	filename := filepath.Join(outputDir, "fibonacci_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Printf("Generated %d entries in %s\n", len(data), filename)
	return nil
}

// generate computes every target concurrently, keeping the input order.
func generate(ctx context.Context, ns []uint64) ([]GoldenData, error) {
	data := make([]GoldenData, len(ns))
	err := parallel.ForEach(ctx, len(ns), 0, func(_ context.Context, i int) error {
		s := fibBig(ns[i]).String()
		sum := sha3.Sum256([]byte(s))
		data[i] = GoldenData{N: ns[i], Result: s, Digits: len(s), SHA3: hex.EncodeToString(sum[:])}
		return nil
	})
	return data, err
}

// fibBig is the iterative math/big oracle.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint64(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}
