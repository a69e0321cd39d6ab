package testutil

import (
	"encoding/binary"
	"io"
	"sync"
)

// CodeReader - детерминированный источник для генератора кодов:
// каждое значение отдается как 8 байт big-endian. Для 6-значного кода
// значение 123456 дает "123456".
type CodeReader struct {
	mu     sync.Mutex
	values []uint64
	buf    []byte
}

func NewCodeReader(values ...uint64) *CodeReader {
	return &CodeReader{values: values}
}

func (r *CodeReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == 0 {
		if len(r.values) == 0 {
			return 0, io.EOF
		}
		r.buf = binary.BigEndian.AppendUint64(nil, r.values[0])
		r.values = r.values[1:]
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
