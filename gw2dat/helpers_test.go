package gw2dat

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// archiveBuilder lays out a synthetic archive: header at 0, MFT at
// header.MFTOffset, then every entry payload in order. Entry 1 carries the
// id table built from pairs.
type archiveBuilder struct {
	header   Header
	mft      MFTHeader
	entries  []MFTEntry
	payloads [][]byte
	pairs    []IDEntry

	// keepCount stops bytes from overwriting mft.NumberOfEntries.
	keepCount bool
}

func newArchiveBuilder() *archiveBuilder {
	return &archiveBuilder{
		header: Header{
			Version:    1,
			Identifier: Magic,
			HeaderSize: HeaderSize,
			ChunkSize:  0x10000,
			CRC:        0xdeadbeef,
			MFTOffset:  0x40,
			MFTSize:    0x100,
			Flags:      3,
		},
		mft: MFTHeader{
			Magic:         [4]uint8{'M', 'f', 't', 0x1a},
			UnknownField1: 0x0102030405060708,
			UnknownField2: 0x1112131415161718,
		},
	}
}

func (b *archiveBuilder) addEntry(payload []byte, compression uint16) int {
	b.entries = append(b.entries, MFTEntry{
		CompressionFlags: compression,
		EntryFlags:       EntryFlagInUse,
		Counter:          uint32(len(b.entries)),
		CRC:              uint32(len(payload)) * 7,
	})
	b.payloads = append(b.payloads, payload)
	return len(b.entries) - 1
}

// withEntries adds n entries with small distinct payloads. bytes replaces
// the payload of entry 1 with the id table.
func (b *archiveBuilder) withEntries(n int) *archiveBuilder {
	for i := 0; i < n; i++ {
		b.addEntry([]byte{byte(i), byte(i), byte(i)}, CompressionNone)
	}
	return b
}

func (b *archiveBuilder) bytes(t *testing.T) []byte {
	t.Helper()

	if len(b.entries) > IDTableEntryIndex {
		var table bytes.Buffer
		if err := binary.Write(&table, binary.LittleEndian, b.pairs); err != nil {
			t.Fatalf("encode id table: %v", err)
		}
		b.payloads[IDTableEntryIndex] = table.Bytes()
	}

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, b.header); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	if pad := int(b.header.MFTOffset) - out.Len(); pad > 0 {
		out.Write(make([]byte, pad))
	}

	mft := b.mft
	if !b.keepCount {
		mft.NumberOfEntries = uint32(len(b.entries))
	}
	if err := binary.Write(&out, binary.LittleEndian, mft); err != nil {
		t.Fatalf("encode mft header: %v", err)
	}

	cur := out.Len() + len(b.entries)*MFTEntrySize
	for i := range b.entries {
		b.entries[i].Offset = uint64(cur)
		b.entries[i].Size = uint32(len(b.payloads[i]))
		cur += len(b.payloads[i])
	}
	if err := binary.Write(&out, binary.LittleEndian, b.entries); err != nil {
		t.Fatalf("encode mft entries: %v", err)
	}
	for _, p := range b.payloads {
		out.Write(p)
	}
	return out.Bytes()
}

// helper to create a temp file with given bytes
func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return p
}
