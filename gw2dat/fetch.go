package gw2dat

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func checkExtension(op string, path string) error {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return invalidInputErr(op, "%q does not have the %s extension", path, Extension)
	}
	return nil
}

// Fetch reads the stored bytes of one entry from the archive at path. Every
// call opens its own handle. Compressed entries come back compressed.
func (a *Archive) Fetch(path string, index int) ([]byte, error) {
	const op = "fetch entry"

	if err := checkExtension(op, path); err != nil {
		return nil, err
	}
	entry, err := a.entry(op, index)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ioErr(op, err)
	}
	defer func() { _ = file.Close() }()

	r := NewFieldReader(file)
	size, err := r.Size()
	if err != nil {
		return nil, ioErr(op, err)
	}
	// the buffer is only allocated once the archive is known to hold it
	if entry.Offset > uint64(size) || uint64(size)-entry.Offset < uint64(entry.Size) {
		return nil, ioErr(op, errors.Wrapf(io.ErrUnexpectedEOF, "entry %d needs %d bytes at %d, archive has %d", index, entry.Size, entry.Offset, size))
	}
	if err := r.Seek(entry.Offset); err != nil {
		return nil, ioErr(op, err)
	}
	data := make([]byte, entry.Size)
	if err := r.ReadFull(data); err != nil {
		return nil, ioErr(op, err)
	}
	return data, nil
}

// EntryReader returns a reader over the stored bytes of one entry. ra must
// support concurrent ReadAt calls if the reader is shared.
func (a *Archive) EntryReader(ra io.ReaderAt, index int) (*io.SectionReader, error) {
	const op = "entry reader"

	entry, err := a.entry(op, index)
	if err != nil {
		return nil, err
	}
	if entry.Offset > math.MaxInt64 {
		return nil, formatErr(op, "entry %d offset %d out of range", index, entry.Offset)
	}
	return io.NewSectionReader(ra, int64(entry.Offset), int64(entry.Size)), nil
}

// ReadEntryAt is Fetch for callers that already hold the archive open.
func (a *Archive) ReadEntryAt(ra io.ReaderAt, index int) ([]byte, error) {
	sr, err := a.EntryReader(ra, index)
	if err != nil {
		return nil, err
	}
	// ReadAll grows with the bytes that arrive instead of the claimed size
	data, err := io.ReadAll(sr)
	if err != nil {
		return nil, ioErr("read entry", err)
	}
	if int64(len(data)) < sr.Size() {
		return nil, ioErr("read entry", errors.Wrapf(io.ErrUnexpectedEOF, "entry %d: got %d of %d bytes", index, len(data), sr.Size()))
	}
	return data, nil
}
