package irc

import (
	"bytes"
	"sync"
)

// LineBuffer accumulates the raw byte stream of one connection and splits it
// into complete protocol lines, and queues outbound bytes until the
// connection's writer flushes them.
//
// The input side (Feed/NextLine) is only ever touched by the server's event
// loop. The output side is queued by the loop and drained by the
// connection's writer goroutine, so it carries its own lock.
type LineBuffer struct {
	in []byte

	mu  sync.Mutex
	out []byte
}

// Feed appends received bytes to the pending input.
func (b *LineBuffer) Feed(p []byte) {
	b.in = append(b.in, p...)
}

// NextLine removes and returns the first complete line from the pending
// input, without its terminator. Lines end with CRLF; a bare LF is accepted
// for clients like netcat. It reports false when no terminator is buffered
// yet; an unterminated tail stays buffered for the next Feed.
func (b *LineBuffer) NextLine() (string, bool) {
	i := bytes.IndexByte(b.in, '\n')
	if i < 0 {
		return "", false
	}
	line := b.in[:i]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	s := string(line)
	b.in = b.in[i+1:]
	return s, true
}

// Pending reports how many input bytes are buffered without a terminator yet.
func (b *LineBuffer) Pending() int {
	return len(b.in)
}

// QueueOutput appends bytes to the pending output. The remainder of a
// partial send is re-queued through the same path.
func (b *LineBuffer) QueueOutput(p []byte) {
	b.mu.Lock()
	b.out = append(b.out, p...)
	b.mu.Unlock()
}

// Drain returns the whole pending output and clears it.
func (b *LineBuffer) Drain() []byte {
	b.mu.Lock()
	out := b.out
	b.out = nil
	b.mu.Unlock()
	return out
}

// HasOutput reports whether any bytes are waiting to be sent.
func (b *LineBuffer) HasOutput() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.out) > 0
}
