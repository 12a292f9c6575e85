// Package source implements the external line streamer the core lexer
// treats as an opaque collaborator (spec Section 6, "Line streamer
// contract": create, stream_line, destroy). The original C streamer reads
// a fixed-size buffer a line at a time; this is the bufio-backed Go
// equivalent, grounded on the same bounded-buffer discipline (a 256-byte
// buffer) but expressed as a bufio.Scanner with its default line split
// function instead of a hand-rolled buffer.
package source

import (
	"bufio"
	"os"
)

// MaxLineBytes is the streamer's bounded buffer size (spec Section 6,
// "bounded buffer, ≥ 256 bytes"). A line is accepted only while the line
// and its terminator fit in this buffer (at most 255 content bytes with LF
// endings; a final line without a terminator must also be shorter than
// MaxLineBytes); anything longer is fatal, the same way the original's
// fixed-size buffer would overflow.
const MaxLineBytes = 256

// ErrLineTooLong is the error Err reports after NextLine stops at a source
// line that does not fit in MaxLineBytes.
type ErrLineTooLong struct {
	Line int
}

func (e *ErrLineTooLong) Error() string {
	return "line exceeds the streamer's buffer limit"
}

// Streamer reads one line at a time from an open file, stripping the
// line terminator (LF or CRLF) and tolerating a missing trailing newline
// on the last line, the way spec Section 6 describes.
type Streamer struct {
	f       *os.File
	scanner *bufio.Scanner
	line    int
	err     error
}

// Open acquires the streamer (spec Section 6's "create"). The caller must
// call Close on every exit path, including after a fatal lexer error —
// the same scoped-acquisition discipline spec Section 5 requires for the
// interner and trie.
func Open(path string) (*Streamer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, MaxLineBytes), MaxLineBytes)
	return &Streamer{f: f, scanner: scanner}, nil
}

// NextLine implements lexer.LineReader (spec Section 6's "stream_line"):
// it returns the next line with its terminator stripped, or ok=false at
// EOF. A line that does not fit in MaxLineBytes sets Err and returns ok=false,
// mirroring the original's "returns 0 at EOF" contract collapsing the
// overflow and EOF cases into one signal; Err distinguishes them for the
// caller.
func (s *Streamer) NextLine() ([]byte, bool) {
	s.line++
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			if err == bufio.ErrTooLong {
				s.err = &ErrLineTooLong{Line: s.line}
			} else {
				s.err = err
			}
		}
		return nil, false
	}
	return s.scanner.Bytes(), true
}

// Err reports why NextLine stopped returning lines, if it was anything
// other than a clean end-of-file.
func (s *Streamer) Err() error {
	return s.err
}

// Close releases the streamer (spec Section 6's "destroy").
func (s *Streamer) Close() error {
	return s.f.Close()
}
