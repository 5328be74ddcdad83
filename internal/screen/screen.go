package screen

import (
	"bytes"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// ReservedRows are kept free below the content, for the prompt that follows it
const ReservedRows = 3

// getSize is swapped in tests
var getSize = term.GetSize

// isTerminal is swapped in tests
var isTerminal = term.IsTerminal

// Size returns the width and height of the terminal f is attached to.
// ok is false when f is not a terminal or its size cannot be read.
func Size(f *os.File) (width, height int, ok bool) {
	if f == nil {
		return 0, 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // fd conversion is safe on all supported platforms
	if !isTerminal(fd) {
		return 0, 0, false
	}
	w, h, err := getSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

type lexState int

const (
	stNormal lexState = iota
	stEsc             // seen ESC, expecting '['
	stCSI             // seen 0xc2, expecting 0x9b (C1 CSI in UTF-8)
	stSequence        // inside a CSI sequence
)

// VisibleLength returns the number of columns buf occupies once SGR escape
// sequences (CSI ... m) are removed. Unrecognised or unterminated sequences
// count as printed verbatim. Every other byte counts as one column.
func VisibleLength(buf []byte) int {
	state, seen, n := stNormal, 0, 0
	for _, c := range buf {
		switch state {
		case stNormal:
			switch c {
			case 0x1b:
				state = stEsc
			case 0xc2:
				state = stCSI
			default:
				n++
			}
		case stEsc:
			if c == '[' {
				state, seen = stSequence, 2
				continue
			}
			state = stNormal
			n += 2
		case stCSI:
			if c == 0x9b {
				state, seen = stSequence, 2
				continue
			}
			state = stNormal
			n += 2
		case stSequence:
			switch {
			case c >= '0' && c <= '9' || c == ';':
				seen++
			case c == 'm':
				state = stNormal
			default:
				state = stNormal
				n += seen + 1
			}
		}
	}

	switch state {
	case stEsc, stCSI:
		n++
	case stSequence:
		n += seen
	}
	return n
}

// LinesUsed returns how many terminal rows buf fills at the given width,
// counting wrapped lines. Double-width characters are not accounted for.
func LinesUsed(buf []byte, width int) int {
	if width < 1 {
		width = 1
	}
	lines := 0
	for line := range bytes.SplitSeq(buf, []byte{'\n'}) {
		lines += max(VisibleLength(line)-1, 0)/width + 1
	}
	return lines
}

// Prefix is the start of an input stream
type Prefix struct {
	Data []byte
	// Complete is true when Data is the whole input
	Complete bool
}

// Reader returns a reader replaying the prefix followed by the rest of the input
func (p Prefix) Reader(rest io.Reader) io.Reader {
	if len(p.Data) == 0 {
		return rest
	}
	return io.MultiReader(bytes.NewReader(p.Data), rest)
}

// ReadPrefix reads r until the input ends or no longer fits on a width x
// height screen (less ReservedRows). On a read error the data read so far is
// returned alongside the error.
func ReadPrefix(r io.Reader, width, height int) (Prefix, error) {
	usable := max(height-ReservedRows, 0)
	chunk := max(width*usable, 512)
	buf := make([]byte, 0, chunk)

	for LinesUsed(buf, width) <= usable {
		if len(buf) == cap(buf) {
			buf = append(buf, make([]byte, chunk)...)[:len(buf)]
		}
		n, err := r.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if errors.Is(err, io.EOF) {
			return Prefix{Data: buf, Complete: true}, nil
		}
		if err != nil {
			return Prefix{Data: buf}, err
		}
	}
	return Prefix{Data: buf}, nil
}
