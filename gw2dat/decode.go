package gw2dat

import (
	"bytes"
)

func decodeHeader(r *FieldReader) (Header, error) {
	const op = "read header"
	var h Header
	var err error

	if h.Version, err = r.Uint8(); err != nil {
		return h, ioErr(op, err)
	}
	if err = r.ReadFull(h.Identifier[:]); err != nil {
		return h, ioErr(op, err)
	}
	// checked before the rest so short foreign files report a format error
	if !bytes.Equal(h.Identifier[:], Magic[:]) {
		return h, formatErr(op, "invalid archive signature % x", h.Identifier[:])
	}
	for _, field := range []*uint32{&h.HeaderSize, &h.UnknownField1, &h.ChunkSize, &h.CRC, &h.UnknownField2} {
		if *field, err = r.Uint32(); err != nil {
			return h, ioErr(op, err)
		}
	}
	if h.MFTOffset, err = r.Uint64(); err != nil {
		return h, ioErr(op, err)
	}
	if h.MFTSize, err = r.Uint32(); err != nil {
		return h, ioErr(op, err)
	}
	if h.Flags, err = r.Uint32(); err != nil {
		return h, ioErr(op, err)
	}
	return h, nil
}

// decodeMFTHeader does not check the MFT magic.
func decodeMFTHeader(r *FieldReader, mftOffset uint64) (MFTHeader, error) {
	const op = "read mft header"
	var h MFTHeader
	var err error

	if err = r.Seek(mftOffset); err != nil {
		return h, ioErr(op, err)
	}
	if err = r.ReadFull(h.Magic[:]); err != nil {
		return h, ioErr(op, err)
	}
	if h.UnknownField1, err = r.Uint64(); err != nil {
		return h, ioErr(op, err)
	}
	if h.NumberOfEntries, err = r.Uint32(); err != nil {
		return h, ioErr(op, err)
	}
	if h.UnknownField2, err = r.Uint64(); err != nil {
		return h, ioErr(op, err)
	}
	return h, nil
}

// decodeMFTEntries reads count entries from the current position, in
// on-disk order. count is bounded by the bytes left in the source.
func decodeMFTEntries(r *FieldReader, count uint32) ([]MFTEntry, error) {
	const op = "read mft entries"

	size, err := r.Size()
	if err != nil {
		return nil, ioErr(op, err)
	}
	remaining := size - r.Offset()
	if remaining < 0 {
		remaining = 0
	}
	if int64(count)*MFTEntrySize > remaining {
		return nil, formatErr(op, "mft entry count %d exceeds archive size (%d bytes left)", count, remaining)
	}

	entries := make([]MFTEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e MFTEntry
		if e.Offset, err = r.Uint64(); err != nil {
			return nil, ioErr(op, err)
		}
		if e.Size, err = r.Uint32(); err != nil {
			return nil, ioErr(op, err)
		}
		if e.CompressionFlags, err = r.Uint16(); err != nil {
			return nil, ioErr(op, err)
		}
		if e.EntryFlags, err = r.Uint16(); err != nil {
			return nil, ioErr(op, err)
		}
		if e.Counter, err = r.Uint32(); err != nil {
			return nil, ioErr(op, err)
		}
		if e.CRC, err = r.Uint32(); err != nil {
			return nil, ioErr(op, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeIDTable(r *FieldReader, entry MFTEntry) ([]IDEntry, error) {
	const op = "read id table"

	if err := r.Seek(entry.Offset); err != nil {
		return nil, ioErr(op, err)
	}
	size, err := r.Size()
	if err != nil {
		return nil, ioErr(op, err)
	}
	count := entry.Size / IDEntrySize
	capacity := int64(count)
	if left := (size - r.Offset()) / IDEntrySize; left < capacity {
		// a short table fails below on the first missing pair
		capacity = left
	}
	if capacity < 0 {
		capacity = 0
	}
	pairs := make([]IDEntry, 0, capacity)
	for i := uint32(0); i < count; i++ {
		var p IDEntry
		if p.FileID, err = r.Uint32(); err != nil {
			return nil, ioErr(op, err)
		}
		if p.BaseID, err = r.Uint32(); err != nil {
			return nil, ioErr(op, err)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
