// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
//   - Write* functions write data to files on the filesystem.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode prints only the value.
	Quiet bool
	// Presentation controls the terminal rendering.
	Presentation orchestration.PresentationOptions
}

// FormatValue renders a result in the requested format. Limbs are printed
// least significant first, as "[0x33db76a7c594bfc3 0x13]".
func FormatValue(result *bignum.BigUint, f orchestration.OutputFormat) string {
	switch f {
	case orchestration.FormatHex:
		return "0x" + result.Text(16)
	case orchestration.FormatLimbs:
		return FormatLimbs(result.Limbs())
	default:
		return result.String()
	}
}

// FormatLimbs renders a limb array in hexadecimal, least significant first.
func FormatLimbs(limbs []bignum.Limb) string {
	var b strings.Builder
	b.Grow(len(limbs)*19 + 2)
	b.WriteByte('[')
	for i, l := range limbs {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "0x%x", l)
	}
	b.WriteByte(']')
	return b.String()
}

// WriteResultToFile writes a result with a short header to
// config.OutputFile, creating parent directories as needed. An empty path
// is a no-op.
func WriteResultToFile(result *bignum.BigUint, duration time.Duration, algo string, config OutputConfig) (err error) {
	if config.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(config.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	n := config.Presentation.N
	value := FormatValue(result, config.Presentation.Format)
	fmt.Fprintf(file, "# Fibonacci Calculation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# N: %d\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", result.BitLen())
	fmt.Fprintf(file, "# Limbs: %d\n", result.Len())
	fmt.Fprintf(file, "\n")
	_, err = fmt.Fprintf(file, "F(%d) =\n%s\n", n, value)
	return err
}

// DisplayQuietResult prints only the value, for scripts.
func DisplayQuietResult(out io.Writer, result *bignum.BigUint, f orchestration.OutputFormat) {
	fmt.Fprintln(out, FormatValue(result, f))
}

// DisplayResultWithConfig prints a result according to config and saves it
// to config.OutputFile when one is set.
func DisplayResultWithConfig(out io.Writer, result *bignum.BigUint, duration time.Duration, algo string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result, config.Presentation.Format)
	} else {
		DisplayResult(result, duration, config.Presentation, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(result, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
