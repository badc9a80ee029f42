package eval

import (
	"context"
	"errors"
	"io"
)

// View is the evaluator's abstract windowed byte source (spec.md §3, §4.7):
// either a root Input or a Subview that restricts visible bytes. Every
// offset a View accepts is relative to that View; AbsoluteOffset projects
// a relative offset back to the root Input's coordinate space so Values
// can carry absolute provenance regardless of how many Subviews they were
// read through.
type View interface {
	// Len reports the view's length, relative to its own start.
	Len() int
	// ReadAt fills a prefix of buf starting at the relative offset off and
	// returns how many bytes were actually filled. A short read near the
	// end of the view is not an error, and a read at exactly off == Len()
	// returns (0, nil); only a negative off or an off > Len() returns
	// (0, errOffsetTooLarge).
	ReadAt(off int, buf []byte) (int, error)
	// AbsoluteOffset projects a relative offset through every enclosing
	// Subview back to the root Input's coordinate space.
	AbsoluteOffset(off int) int
}

// errOffsetTooLarge is ReadAt's sentinel for "off is negative or past the
// end of the view". The evaluator reports it as a ParseErr of kind
// OffsetTooLarge; any other ReadAt error (such as a CancellableView's
// cancellation) is reported as Io.
var errOffsetTooLarge = errors.New("eval: offset past end of view")

// Input is a root View backed either by an in-memory byte slice or an
// io.ReaderAt (a file, per spec.md's "file-backed Input uses positional
// reads" so concurrent evaluator invocations never share seek state).
type Input struct {
	mem  []byte
	ra   io.ReaderAt
	size int
}

// NewMemInput builds a root Input over an in-memory buffer. data is
// retained, not copied.
func NewMemInput(data []byte) *Input {
	return &Input{mem: data, size: len(data)}
}

// NewReaderAtInput builds a root Input over a positional reader of the
// given total size (e.g. an *os.File).
func NewReaderAtInput(ra io.ReaderAt, size int64) *Input {
	return &Input{ra: ra, size: int(size)}
}

func (in *Input) Len() int { return in.size }

func (in *Input) ReadAt(off int, buf []byte) (int, error) {
	if off < 0 || off >= in.size {
		if off == in.size {
			return 0, nil
		}
		return 0, errOffsetTooLarge
	}
	want := len(buf)
	if off+want > in.size {
		want = in.size - off
	}
	if in.mem != nil {
		n := copy(buf[:want], in.mem[off:off+want])
		return n, nil
	}
	n, err := in.ra.ReadAt(buf[:want], int64(off))
	if err != nil && err != io.EOF {
		return n, err
	}
	return n, nil
}

func (in *Input) AbsoluteOffset(off int) int { return off }

// Subview restricts a parent View to [Start, End) of the parent's own
// coordinate space, per spec.md's "Subview{parent, valid_range}". The
// evaluator builds one per Elsewhere/Peek-at-offset so the inner parse's
// cursor starts at 0 while provenance still projects back to the root.
type Subview struct {
	parent     View
	start, end int
}

// NewSubview clips [start, end) to the parent's own length.
func NewSubview(parent View, start, end int) *Subview {
	if start < 0 {
		start = 0
	}
	if end > parent.Len() {
		end = parent.Len()
	}
	if end < start {
		end = start
	}
	return &Subview{parent: parent, start: start, end: end}
}

func (s *Subview) Len() int { return s.end - s.start }

func (s *Subview) ReadAt(off int, buf []byte) (int, error) {
	if off < 0 || off > s.Len() {
		return 0, errOffsetTooLarge
	}
	avail := s.Len() - off
	if avail == 0 {
		return 0, nil
	}
	if len(buf) > avail {
		buf = buf[:avail]
	}
	return s.parent.ReadAt(s.start+off, buf)
}

func (s *Subview) AbsoluteOffset(off int) int { return s.parent.AbsoluteOffset(s.start + off) }

// CancellableView decorates a View with cooperative cancellation (spec.md
// §5's "callers may wrap a View in a cancellable decorator that returns
// Io error"): every ReadAt first checks ctx.Err().
type CancellableView struct {
	inner View
	ctx   context.Context
}

// NewCancellableView wraps inner so every ReadAt call observes ctx's
// cancellation.
func NewCancellableView(inner View, ctx context.Context) *CancellableView {
	return &CancellableView{inner: inner, ctx: ctx}
}

func (c *CancellableView) Len() int { return c.inner.Len() }

func (c *CancellableView) ReadAt(off int, buf []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.inner.ReadAt(off, buf)
}

func (c *CancellableView) AbsoluteOffset(off int) int { return c.inner.AbsoluteOffset(off) }
