package decoder

import (
	"errors"
	"fmt"
	"io"
)

// ErrConnectionClosed is returned when the stream ends before the requested
// number of bytes arrived.
var ErrConnectionClosed = fmt.Errorf("connection closed: %w", io.ErrUnexpectedEOF)

// ReadBytes reads exactly n bytes from r. It never returns a short buffer.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	result := make([]byte, n)
	readed := 0
	for readed < n {
		m, err := r.Read(result[readed:])
		readed += m
		if readed == n {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrConnectionClosed
			}
			return nil, err
		}
		if m == 0 {
			return nil, ErrConnectionClosed
		}
	}

	return result, nil
}

// WriteAll writes every byte of b to w, retrying partial writes.
func WriteAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}
