package progress

import (
	"bytes"
	"sync"
)

// LineWriter splits everything written to it into lines and hands each line,
// without its terminator, to emit. "\n", "\r\n" and a lone "\r" all end a
// line. Call Flush once the stream is done to emit a trailing partial line.
type LineWriter struct {
	emit func(line string)

	mu  sync.Mutex
	buf bytes.Buffer
}

func NewLineWriter(emit func(line string)) *LineWriter {
	return &LineWriter{emit: emit}
}

func (l *LineWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, _ := l.buf.Write(b)
	for {
		line, ok := l.nextLineLocked()
		if !ok {
			break
		}
		l.emit(line)
	}
	return n, nil
}

// Flush emits whatever is buffered as a final line.
func (l *LineWriter) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf.Len() == 0 {
		return
	}
	rest := bytes.TrimSuffix(l.buf.Bytes(), []byte{'\r'})
	line := string(rest)
	l.buf.Reset()
	l.emit(line)
}

func (l *LineWriter) nextLineLocked() (string, bool) {
	data := l.buf.Bytes()
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			line := string(data[:i])
			l.buf.Next(i + 1)
			return line, true
		case '\r':
			// a "\n" may still arrive in the next write
			if i+1 == len(data) {
				return "", false
			}
			consume := 1
			if data[i+1] == '\n' {
				consume = 2
			}
			line := string(data[:i])
			l.buf.Next(i + consume)
			return line, true
		}
	}
	return "", false
}
