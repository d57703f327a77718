// Package device exposes the Fibonacci generator through a byte-oriented,
// seek-addressed session. A session is opened with single-writer exclusion,
// positioned with Seek, and a Read computes F(position) and copies the
// minimal little-endian encoding of its limbs into the caller's buffer.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/fibdrv/internal/bignum"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
)

// MaxLength is the default largest addressable index.
const MaxLength int64 = 10000

// ErrBusy is returned by Open while another session holds the device.
var ErrBusy = apperrors.BusyError{Resource: "fibonacci device"}

// ErrOutOfRange is the cause of the ValidationError returned by Compute for
// an index above the configured maximum.
var ErrOutOfRange = errors.New("device: index out of range")

// ErrClosed is returned by operations on a closed Handle.
var ErrClosed = errors.New("device: handle closed")

// Result is the outcome of one computation.
type Result struct {
	// Limbs holds F(k) least significant limb first, trimmed.
	Limbs []bignum.Limb
	// Elapsed is the time spent inside the generator.
	Elapsed time.Duration
}

// Option configures a Device.
type Option func(*Device)

// WithCalculator selects the generator used by reads. The device reports
// it under calc.Name(); use WithAlgorithm for registered generators.
func WithCalculator(calc fibonacci.Calculator) Option {
	return func(d *Device) { d.calc, d.algorithm = calc, calc.Name() }
}

// WithAlgorithm selects a registered generator and reports it under its
// registry key.
func WithAlgorithm(name string, calc fibonacci.Calculator) Option {
	return func(d *Device) { d.calc, d.algorithm = calc, name }
}

// WithMaxLength overrides the largest addressable index. Non-positive
// values are ignored.
func WithMaxLength(n int64) Option {
	return func(d *Device) {
		if n > 0 {
			d.maxLength = n
		}
	}
}

// WithLogger sets the logger for session events.
func WithLogger(logger logging.Logger) Option {
	return func(d *Device) { d.logger = logger }
}

// WithOptions sets the calculation options passed to the generator.
func WithOptions(opts fibonacci.Options) Option {
	return func(d *Device) { d.opts = opts }
}

// Device is a single-writer Fibonacci endpoint. Compute may be called
// concurrently; Open admits one session at a time.
type Device struct {
	mu        sync.Mutex
	calc      fibonacci.Calculator
	algorithm string
	maxLength int64
	opts      fibonacci.Options
	logger    logging.Logger
}

// New builds a Device. Without options it uses the fast doubling
// generator, MaxLength and a logger that writes to stderr.
func New(opts ...Option) *Device {
	d := &Device{maxLength: MaxLength}
	for _, opt := range opts {
		opt(d)
	}
	if d.calc == nil {
		d.calc = fibonacci.GlobalFactory().MustGet(fibonacci.AlgorithmDoubling)
		d.algorithm = fibonacci.AlgorithmDoubling
	}
	if d.logger == nil {
		d.logger = logging.NewDefaultLogger()
	}
	return d
}

// MaxLength returns the largest addressable index.
func (d *Device) MaxLength() int64 { return d.maxLength }

// Algorithm returns the key of the generator used by reads, as listed by
// the calculator registry.
func (d *Device) Algorithm() string { return d.algorithm }

// Open starts a session. It fails with ErrBusy while another session is
// open; it never blocks.
func (d *Device) Open() (*Handle, error) {
	if !d.mu.TryLock() {
		d.logger.Debug("device busy", logging.String("algorithm", d.algorithm))
		return nil, ErrBusy
	}
	d.logger.Debug("session opened")
	return &Handle{dev: d}, nil
}

// Compute returns F(k) as trimmed limbs with the time spent in the
// generator. k must lie in [0, MaxLength()].
func (d *Device) Compute(ctx context.Context, k int64) (Result, error) {
	ctx, span := otel.Tracer("device").Start(ctx, "Compute")
	span.SetAttributes(
		attribute.Int64("device.k", k),
		attribute.String("device.algorithm", d.algorithm),
	)
	defer span.End()

	if err := d.checkIndex(k); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	start := time.Now()
	value, err := d.calc.Calculate(ctx, nil, 0, uint64(k), d.opts)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("compute failed", err, logging.Int64("k", k))
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("device.limbs", value.Len()))
	return Result{Limbs: value.Limbs(), Elapsed: elapsed}, nil
}

func (d *Device) checkIndex(k int64) error {
	switch {
	case k < 0:
		return apperrors.ValidationError{
			Field:   "n",
			Message: "must be non-negative",
			Cause:   fibonacci.ErrNegativeIndex,
		}
	case k > d.maxLength:
		return apperrors.ValidationError{
			Field:   "n",
			Message: fmt.Sprintf("must not exceed %d", d.maxLength),
			Cause:   ErrOutOfRange,
		}
	}
	return nil
}

// Handle is an open session. It is not safe for concurrent use.
type Handle struct {
	dev     *Device
	pos     int64
	elapsed time.Duration
	closed  bool
}

// Seek moves the position. io.SeekEnd counts back from MaxLength. The
// result is clamped to [0, MaxLength]; it never fails for a valid whence.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = h.pos + offset
		if offset > 0 && pos < h.pos {
			pos = math.MaxInt64
		}
	case io.SeekEnd:
		pos = h.dev.maxLength
		if offset > 0 {
			pos -= offset
		}
	default:
		return h.pos, fmt.Errorf("device: invalid whence %d", whence)
	}
	h.pos = min(max(pos, 0), h.dev.maxLength)
	return h.pos, nil
}

// Pos returns the current position.
func (h *Handle) Pos() int64 { return h.pos }

// Read computes F(Pos()) and copies its minimal encoding into p. The
// position does not advance. A buffer smaller than the encoding receives
// a prefix and io.ErrShortBuffer.
func (h *Handle) Read(p []byte) (int, error) {
	return h.ReadContext(context.Background(), p)
}

// ReadContext is Read with cancellation.
func (h *Handle) ReadContext(ctx context.Context, p []byte) (int, error) {
	res, err := h.Result(ctx)
	if err != nil {
		return 0, err
	}
	enc := bignum.EncodeMinimal(res.Limbs)
	n := copy(p, enc)
	if n < len(enc) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

// Result computes F(Pos()) and returns the limbs directly.
func (h *Handle) Result(ctx context.Context) (Result, error) {
	if h.closed {
		return Result{}, ErrClosed
	}
	res, err := h.dev.Compute(ctx, h.pos)
	if err != nil {
		return Result{}, err
	}
	h.elapsed = res.Elapsed
	return res, nil
}

// Elapsed returns the generator time of the last successful read.
func (h *Handle) Elapsed() time.Duration { return h.elapsed }

// Write accepts and ignores p. It always reports one byte written.
func (h *Handle) Write(_ []byte) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	return 1, nil
}

// Close releases the device. Closing twice is a no-op.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.dev.logger.Debug("session closed")
	h.dev.mu.Unlock()
	return nil
}
