package stdio

import (
	"bufio"
	"io"

	"github.com/mcpline/mcpline/pkg/config"
)

// Reader yields one protocol line at a time from the input stream.
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), config.MaxLineSize)
	return &Reader{scanner: scanner}
}

// ReadLine returns the next input line without its trailing newline. It
// returns io.EOF once the stream is exhausted.
func (r *Reader) ReadLine() ([]byte, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return r.scanner.Bytes(), nil
}
