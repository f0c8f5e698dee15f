package runner

import (
	"bytes"
	"regexp"
)

// Matches two-byte escapes and CSI sequences, the forms build tools emit
// for color and cursor movement.
var ansiEscape = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// lineWriter splits an arbitrary byte stream into lines and hands each
// complete line to emit. Chunk boundaries carry no meaning: a single Write
// may contain zero, one, or many newlines, and a line may span many Writes.
type lineWriter struct {
	emit LineFunc
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emitLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush delivers any trailing output that was not newline-terminated.
func (w *lineWriter) Flush() {
	if len(w.buf) > 0 {
		w.emitLine(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) emitLine(b []byte) {
	b = bytes.TrimSuffix(b, []byte{'\r'})
	w.emit(StripANSI(string(b)))
}
