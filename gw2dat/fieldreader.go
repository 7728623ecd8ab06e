package gw2dat

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

const readBufferSize = 64 * 1024

// FieldReader decodes little-endian fixed-width fields from a seekable source.
// Reads go through a buffer; Seek discards it.
type FieldReader struct {
	src     io.ReadSeeker
	br      *bufio.Reader
	offset  int64
	scratch [8]byte
}

// NewFieldReader wraps src. The reader assumes src is positioned at offset 0.
func NewFieldReader(src io.ReadSeeker) *FieldReader {
	return &FieldReader{
		src: src,
		br:  bufio.NewReaderSize(src, readBufferSize),
	}
}

// Offset returns the absolute position of the next byte to be read.
func (r *FieldReader) Offset() int64 {
	return r.offset
}

// Seek moves to an absolute position in the source.
func (r *FieldReader) Seek(offset uint64) error {
	if offset > math.MaxInt64 {
		return errors.Errorf("seek offset %d out of range", offset)
	}
	if _, err := r.src.Seek(int64(offset), io.SeekStart); err != nil {
		return errors.WithStack(err)
	}
	r.br.Reset(r.src)
	r.offset = int64(offset)
	return nil
}

// Size returns the total length of the source. The read position is kept.
func (r *FieldReader) Size() (int64, error) {
	end, err := r.src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if _, err := r.src.Seek(r.offset, io.SeekStart); err != nil {
		return 0, errors.WithStack(err)
	}
	r.br.Reset(r.src)
	return end, nil
}

func (r *FieldReader) next(n int) ([]byte, error) {
	b := r.scratch[:n]
	read, err := io.ReadFull(r.br, b)
	r.offset += int64(read)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

func (r *FieldReader) Uint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *FieldReader) Uint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *FieldReader) Uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *FieldReader) Uint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadFull fills p completely or fails.
func (r *FieldReader) ReadFull(p []byte) error {
	read, err := io.ReadFull(r.br, p)
	r.offset += int64(read)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
