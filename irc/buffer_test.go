package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineBufferFraming(t *testing.T) {
	var b LineBuffer

	_, ok := b.NextLine()
	assert.False(t, ok, "empty buffer should have no line")

	// A line split across feeds only surfaces once the terminator arrives.
	b.Feed([]byte("NICK al"))
	_, ok = b.NextLine()
	assert.False(t, ok)
	assert.Equal(t, 7, b.Pending())

	b.Feed([]byte("ice\r\nUSER alice"))
	line, ok := b.NextLine()
	assert.True(t, ok)
	assert.Equal(t, "NICK alice", line)

	_, ok = b.NextLine()
	assert.False(t, ok, "partial second line should stay buffered")
	assert.Equal(t, 10, b.Pending())
}

func TestLineBufferMultipleLinesOneFeed(t *testing.T) {
	var b LineBuffer
	b.Feed([]byte("PASS x\r\nNICK a\r\nUSER a 0 * :A\r\n"))

	for _, want := range []string{"PASS x", "NICK a", "USER a 0 * :A"} {
		line, ok := b.NextLine()
		assert.True(t, ok)
		assert.Equal(t, want, line)
	}
	_, ok := b.NextLine()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Pending())
}

func TestLineBufferBareLF(t *testing.T) {
	var b LineBuffer
	b.Feed([]byte("PING one\nPING two\r\n"))

	line, ok := b.NextLine()
	assert.True(t, ok)
	assert.Equal(t, "PING one", line)

	line, ok = b.NextLine()
	assert.True(t, ok)
	assert.Equal(t, "PING two", line)
}

func TestLineBufferEmptyLine(t *testing.T) {
	var b LineBuffer
	b.Feed([]byte("\r\nPING x\r\n"))

	line, ok := b.NextLine()
	assert.True(t, ok)
	assert.Equal(t, "", line)

	line, ok = b.NextLine()
	assert.True(t, ok)
	assert.Equal(t, "PING x", line)
}

func TestLineBufferOutputQueue(t *testing.T) {
	var b LineBuffer

	assert.False(t, b.HasOutput())
	b.QueueOutput([]byte("first\r\n"))
	b.QueueOutput([]byte("second\r\n"))
	assert.True(t, b.HasOutput())

	out := b.Drain()
	assert.Equal(t, "first\r\nsecond\r\n", string(out))
	assert.False(t, b.HasOutput())
	assert.Empty(t, b.Drain())

	// Draining must hand back an independent slice: queueing more data
	// afterwards cannot clobber what a writer is still sending.
	b.QueueOutput([]byte("third\r\n"))
	assert.Equal(t, "first\r\nsecond\r\n", string(out))
	assert.Equal(t, "third\r\n", string(b.Drain()))
}
