// Package gw2dat reads the directory structures of Guild Wars 2 .dat
// archives: the archive header, the master file table (MFT) and the file id
// index stored in MFT entry 1. Entry payloads are returned as stored.
package gw2dat

import (
	"io"
	"os"
)

// Archive is a loaded .dat file. It is never modified after Load and may be
// shared between goroutines.
type Archive struct {
	Header    Header
	MFTHeader MFTHeader
	Entries   []MFTEntry
	Index     []IDEntry
	Conflicts []IndexConflict

	fileIDs map[uint32]int
}

// Open loads the archive at path. The path must carry the .dat extension.
func Open(path string) (*Archive, error) {
	if err := checkExtension("open", path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ioErr("open", err)
	}
	defer func() { _ = file.Close() }()

	return Load(file)
}

// Load decodes an archive from src, stopping at the first failure.
func Load(src io.ReadSeeker) (*Archive, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, ioErr("load", err)
	}
	r := NewFieldReader(src)

	header, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}
	mftHeader, err := decodeMFTHeader(r, header.MFTOffset)
	if err != nil {
		return nil, err
	}
	entries, err := decodeMFTEntries(r, mftHeader.NumberOfEntries)
	if err != nil {
		return nil, err
	}
	index, conflicts, err := readIndex(r, entries)
	if err != nil {
		return nil, err
	}

	return &Archive{
		Header:    header,
		MFTHeader: mftHeader,
		Entries:   entries,
		Index:     index,
		Conflicts: conflicts,
		fileIDs:   buildFileIDMap(index),
	}, nil
}

func (a *Archive) NumEntries() int {
	return len(a.Entries)
}

func (a *Archive) Entry(index int) (MFTEntry, error) {
	return a.entry("entry", index)
}

func (a *Archive) entry(op string, index int) (MFTEntry, error) {
	if index < 0 || index >= len(a.Entries) {
		return MFTEntry{}, indexErr(op, "entry %d of %d", index, len(a.Entries))
	}
	return a.Entries[index], nil
}

// FileIDs returns the resolved id slot of an MFT entry.
func (a *Archive) FileIDs(index int) (IDEntry, error) {
	if index < 0 || index >= len(a.Index) {
		return IDEntry{}, indexErr("file ids", "slot %d of %d", index, len(a.Index))
	}
	return a.Index[index], nil
}

// EntryForFileID returns the MFT position whose slot holds fileID. When
// several slots hold it, the lowest position wins.
func (a *Archive) EntryForFileID(fileID uint32) (int, bool) {
	if fileID == 0 {
		return 0, false
	}
	i, ok := a.fileIDs[fileID]
	return i, ok
}
