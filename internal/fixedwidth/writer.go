package fixedwidth

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"fwconv/internal/layout"
	"fwconv/internal/logging"
	"fwconv/internal/textenc"
)

// WriterOption customizes a Writer.
type WriterOption func(*writerOptions)

type writerOptions struct {
	lock   bool
	logger *slog.Logger
}

// WithLock takes an exclusive advisory lock on "<path>.lock" for the lifetime
// of a writer created with Create.
func WithLock(enabled bool) WriterOption {
	return func(o *writerOptions) {
		o.lock = enabled
	}
}

// WithLogger attaches a logger to the writer.
func WithLogger(logger *slog.Logger) WriterOption {
	return func(o *writerOptions) {
		o.logger = logger
	}
}

// Writer renders codec lines into an encoded output sink. Each line is
// encoded in full before any byte reaches the sink.
type Writer struct {
	codec   *Codec
	path    string
	out     io.Writer
	encoder *textenc.Encoder
	file    *os.File
	lock    *flock.Flock
	logger  *slog.Logger
	lines   int
	closed  bool
}

// NewWriter wraps w so rendered lines are encoded with the layout's
// fixed-width encoding. Closing the Writer does not close w.
func NewWriter(w io.Writer, l *layout.Layout, opts ...WriterOption) (*Writer, error) {
	o := applyWriterOptions(opts)
	encoder, err := textenc.NewEncoder(l.Settings().FixedWidthEncoding)
	if err != nil {
		return nil, err
	}
	return &Writer{
		codec:   NewCodec(l),
		out:     w,
		encoder: encoder,
		logger:  o.logger,
	}, nil
}

// Create truncates or creates the file at path and returns a Writer that
// owns it.
func Create(path string, l *layout.Layout, opts ...WriterOption) (*Writer, error) {
	o := applyWriterOptions(opts)

	var lock *flock.Flock
	if o.lock {
		lock = flock.New(path + ".lock")
		ok, err := lock.TryLock()
		if err != nil {
			return nil, &IOError{Op: "lock", Path: path, Err: err}
		}
		if !ok {
			return nil, &IOError{Op: "lock", Path: path, Err: ErrLocked}
		}
	}

	file, err := os.Create(path)
	if err != nil {
		releaseLock(lock)
		return nil, &IOError{Op: "open target", Path: path, Err: err}
	}

	w, err := NewWriter(file, l, opts...)
	if err != nil {
		_ = file.Close()
		releaseLock(lock)
		return nil, err
	}
	w.path = path
	w.file = file
	w.lock = lock
	w.logger.Debug("fixed-width output opened",
		logging.Path(path),
		logging.String("encoding", l.Settings().FixedWidthEncoding),
		logging.Bool("locked", lock != nil),
	)
	return w, nil
}

func applyWriterOptions(opts []WriterOption) writerOptions {
	var o writerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	return o
}

// Update merges values into the record buffer.
func (w *Writer) Update(values Record) {
	w.codec.Update(values)
}

// Reset clears the record buffer.
func (w *Writer) Reset() {
	w.codec.Reset()
}

// HeaderEmitted reports whether the header line has been written.
func (w *Writer) HeaderEmitted() bool {
	return w.codec.HeaderEmitted()
}

// WriteLine renders the buffered record and appends it to the sink. A record
// that fails validation or cannot be encoded writes nothing and leaves the
// header pending.
func (w *Writer) WriteLine() error {
	if w.closed {
		return &IOError{Op: "write", Path: w.path, Err: ErrClosed}
	}
	text, header, err := w.codec.render()
	if err != nil {
		return err
	}
	data, err := w.encoder.Bytes(text)
	if err != nil {
		return &IOError{Op: "encode", Path: w.path, Err: err}
	}
	if _, err := w.out.Write(data); err != nil {
		return &IOError{Op: "write", Path: w.path, Err: err}
	}
	if header {
		w.codec.headerEmitted = true
		w.logger.Debug("header line written", logging.Int("columns", len(w.codec.columns)))
	}
	w.lines++
	return nil
}

// Lines reports how many data lines have been written.
func (w *Writer) Lines() int {
	return w.lines
}

// Close releases the sink. It is safe to call more than once; only the first
// call does any work.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			errs = append(errs, &IOError{Op: "close", Path: w.path, Err: err})
		}
	}
	if w.lock != nil {
		if err := releaseLock(w.lock); err != nil {
			w.logger.Warn("failed to release output lock", logging.Path(w.path), logging.Error(err))
		}
	}
	w.logger.Debug("fixed-width output closed", logging.Path(w.path), logging.Lines(w.lines))
	return errors.Join(errs...)
}

func releaseLock(lock *flock.Flock) error {
	if lock == nil {
		return nil
	}
	if err := lock.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", lock.Path(), err)
	}
	return nil
}
