package executor

import (
	"bytes"
	"fmt"
)

// DefaultMaxOutput caps each captured stream.
const DefaultMaxOutput = 1 << 20

// cappedBuffer keeps the first max bytes written to it and discards the rest.
// Writes always report success so the child keeps draining its pipe until the
// deadline instead of blocking on a full one.
type cappedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func newCappedBuffer(max int) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.max - b.buf.Len()
	if len(p) > room {
		b.truncated = true
		if room > 0 {
			b.buf.Write(p[:room])
		}
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) Len() int { return b.buf.Len() }

// String returns the captured text. A truncated capture ends with a notice and
// still fits in max bytes.
func (b *cappedBuffer) String() string {
	if !b.truncated {
		return b.buf.String()
	}
	notice := fmt.Sprintf("\n[output truncated at %d bytes]\n", b.max)
	keep := b.max - len(notice)
	if keep < 0 {
		return b.buf.String()
	}
	return string(b.buf.Bytes()[:keep]) + notice
}
