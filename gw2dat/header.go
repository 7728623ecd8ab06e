package gw2dat

const (
	HeaderSize    = 40
	MFTHeaderSize = 24
	MFTEntrySize  = 24
	IDEntrySize   = 8

	// IDTableEntryIndex is the MFT position whose data holds the raw file id
	// table. Every archive relies on it; changing it is a compatibility break.
	IDTableEntryIndex = 1

	Extension = ".dat"
)

// Magic is the archive header identifier.
var Magic = [3]uint8{0x41, 0x4E, 0x1A}

// Compression flag values. They are carried through untouched.
const (
	CompressionNone       uint16 = 0
	CompressionCompressed uint16 = 8
)

const EntryFlagInUse uint16 = 1

type Header struct {
	Version       uint8    `json:"version"`
	Identifier    [3]uint8 `json:"identifier"`
	HeaderSize    uint32   `json:"headerSize"`
	UnknownField1 uint32   `json:"unknownField1"`
	ChunkSize     uint32   `json:"chunkSize"`
	CRC           uint32   `json:"crc"`
	UnknownField2 uint32   `json:"unknownField2"`
	MFTOffset     uint64   `json:"mftOffset"`
	MFTSize       uint32   `json:"mftSize"`
	Flags         uint32   `json:"flags"`
}

type MFTHeader struct {
	Magic           [4]uint8 `json:"magic"`
	UnknownField1   uint64   `json:"unknownField1"`
	NumberOfEntries uint32   `json:"numberOfEntries"`
	UnknownField2   uint64   `json:"unknownField2"`
}

type MFTEntry struct {
	Offset           uint64 `json:"offset"`
	Size             uint32 `json:"size"`
	CompressionFlags uint16 `json:"compressionFlags"`
	EntryFlags       uint16 `json:"entryFlags"`
	Counter          uint32 `json:"counter"`
	CRC              uint32 `json:"crc"`
}

func (e MFTEntry) InUse() bool {
	return e.EntryFlags&EntryFlagInUse != 0
}

func (e MFTEntry) Compressed() bool {
	return e.CompressionFlags == CompressionCompressed
}

// IDEntry is a (file id, base id) pair. On disk the file id comes first.
// In a resolved index BaseID <= FileID whenever both are set, and the zero
// value means the slot is unassigned.
type IDEntry struct {
	FileID uint32 `json:"fileId"`
	BaseID uint32 `json:"baseId"`
}

// IndexConflict records a raw id pair that was dropped because its slot
// already held two ids.
type IndexConflict struct {
	Pair    int     `json:"pair"`
	Slot    uint32  `json:"slot"`
	Dropped uint32  `json:"dropped"`
	Kept    IDEntry `json:"kept"`
}
