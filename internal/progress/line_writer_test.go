package progress

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect() (*LineWriter, *[]string) {
	var lines []string
	return NewLineWriter(func(line string) { lines = append(lines, line) }), &lines
}

func TestLineWriter_SplitsAcrossWrites(t *testing.T) {
	lw, lines := collect()

	_, _ = lw.Write([]byte("fir"))
	_, _ = lw.Write([]byte("st\nsec"))
	_, _ = lw.Write([]byte("ond\n\nthird"))
	assert.Equal(t, []string{"first", "second", ""}, *lines)

	lw.Flush()
	assert.Equal(t, []string{"first", "second", "", "third"}, *lines)
}

func TestLineWriter_CarriageReturns(t *testing.T) {
	lw, lines := collect()

	_, _ = lw.Write([]byte("a\r"))
	assert.Empty(t, *lines, "lone \\r at the end of a chunk waits for a possible \\n")
	_, _ = lw.Write([]byte("\nb\rc\r\n"))
	lw.Flush()

	assert.Equal(t, []string{"a", "b", "c"}, *lines)
}

func TestLineWriter_FlushTrailingCR(t *testing.T) {
	lw, lines := collect()

	_, _ = lw.Write([]byte("x\n\r"))
	lw.Flush()
	assert.Equal(t, []string{"x", ""}, *lines)
}

func TestLineWriter_FlushEmptyIsNoop(t *testing.T) {
	lw, lines := collect()
	_, _ = lw.Write([]byte("done\n"))
	lw.Flush()
	lw.Flush()
	assert.Equal(t, []string{"done"}, *lines)
}

func TestLineWriter_LongLine(t *testing.T) {
	lw, lines := collect()
	long := strings.Repeat("x", 200_000)

	n, err := io.Copy(lw, strings.NewReader(long+"\ntail"))
	assert.NoError(t, err)
	assert.EqualValues(t, len(long)+5, n)
	lw.Flush()

	if assert.Len(t, *lines, 2) {
		assert.Equal(t, long, (*lines)[0])
		assert.Equal(t, "tail", (*lines)[1])
	}
}
