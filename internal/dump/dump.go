package dump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kstaniek/go-canerrdump/internal/can"
	"github.com/kstaniek/go-canerrdump/internal/canerr"
	"github.com/kstaniek/go-canerrdump/internal/logging"
	"github.com/kstaniek/go-canerrdump/internal/metrics"
)

// Sentinel errors used for wrapping so callers can classify via errors.Is.
var (
	ErrRead   = errors.New("read")
	ErrOutput = errors.New("output")
)

// Source yields raw frames one at a time. Implementations return
// can.ErrNoFrame when a read timed out and can.ErrMalformedFrame for frames
// that should be skipped; anything else ends the dump.
type Source interface {
	ReadFrame(*can.Frame) error
}

// Dumper reads frames from a Source and writes one line per error frame.
type Dumper struct {
	src          Source
	out          io.Writer
	mask         canerr.Mask
	backend      string
	readErrLabel string
	logger       *slog.Logger
}

type Option func(*Dumper)

func New(src Source, out io.Writer, opts ...Option) *Dumper {
	d := &Dumper{
		src:          src,
		out:          out,
		mask:         canerr.DefaultMask,
		backend:      "socketcan",
		readErrLabel: metrics.ErrSocketCANRead,
		logger:       logging.L(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// WithMask re-applies the error mask in user space. Backends without a
// kernel filter rely on it.
func WithMask(m canerr.Mask) Option { return func(d *Dumper) { d.mask = m } }

// WithBackend names the source for metrics labels.
func WithBackend(name, readErrLabel string) Option {
	return func(d *Dumper) { d.backend, d.readErrLabel = name, readErrLabel }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dumper) {
		if l != nil {
			d.logger = l
		}
	}
}

// Run processes frames until ctx is cancelled (returns nil) or the source
// or output fails. Malformed frames are logged and skipped.
func (d *Dumper) Run(ctx context.Context) error {
	var fr can.Frame
	for {
		if ctx.Err() != nil {
			return nil
		}
		err := d.src.ReadFrame(&fr)
		switch {
		case err == nil:
		case errors.Is(err, can.ErrNoFrame):
			continue
		case errors.Is(err, can.ErrMalformedFrame):
			metrics.IncMalformed()
			d.logger.Warn("malformed_frame", "backend", d.backend, "error", err)
			continue
		default:
			if ctx.Err() != nil { // source closed for shutdown
				return nil
			}
			metrics.IncError(d.readErrLabel)
			return fmt.Errorf("%w: %w", ErrRead, err)
		}
		metrics.IncRx(d.backend)
		if err := d.Handle(fr); err != nil {
			return err
		}
	}
}

// Handle classifies, decodes and prints a single frame. Data frames and
// error frames rejected by the mask produce no output.
func (d *Dumper) Handle(fr can.Frame) error {
	c, ok := canerr.Classify(fr)
	if !ok {
		metrics.IncIgnored()
		return nil
	}
	if !d.mask.Allows(c) {
		metrics.IncFiltered()
		d.logger.Debug("error_frame_filtered", "can_id", fmt.Sprintf("0x%08X", fr.CANID))
		return nil
	}
	line := canerr.Format(fr, canerr.Decode(c, fr.Data, fr.Len))
	if _, err := io.WriteString(d.out, line+"\n"); err != nil {
		metrics.IncError(metrics.ErrOutput)
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	metrics.IncErrorFrame(c.Names())
	return nil
}

// PrintMask writes the ShowBits line.
func PrintMask(w io.Writer, m canerr.Mask) error {
	if _, err := fmt.Fprintf(w, "Error Mask = %s\n", m.Bits()); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}
