package stdio

import (
	"bufio"
	"encoding/json"
	"io"
)

// Writer frames messages onto the output stream, one JSON object per line.
type Writer struct {
	bw *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteMessage serializes v as a single line and flushes immediately so the
// remote client never waits on a buffered response.
func (w *Writer) WriteMessage(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(data); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	return w.bw.Flush()
}
