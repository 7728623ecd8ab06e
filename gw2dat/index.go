package gw2dat

import (
	"log"
)

var logger = log.Default()

// SetLogger replaces the logger used to report dropped index ids.
func SetLogger(l *log.Logger) {
	logger = l
}

// ResolveIndex folds raw id pairs into one slot per MFT entry.
//
// Each pair's BaseID addresses a slot. The first file id seen for a slot is
// stored in its BaseID, the second in its FileID, and the two are kept in
// ascending order. Ids arriving for a slot that already holds two are dropped
// and returned as conflicts.
func ResolveIndex(pairs []IDEntry, entryCount int) ([]IDEntry, []IndexConflict, error) {
	const op = "resolve index"

	index := make([]IDEntry, entryCount)
	var conflicts []IndexConflict

	for i, pair := range pairs {
		if int(pair.BaseID) >= entryCount {
			return nil, nil, indexErr(op, "pair %d addresses slot %d of %d", i, pair.BaseID, entryCount)
		}

		slot := &index[pair.BaseID]
		switch {
		case slot.BaseID == 0:
			slot.BaseID = pair.FileID
		case slot.FileID == 0:
			slot.FileID = pair.FileID
		default:
			conflicts = append(conflicts, IndexConflict{
				Pair:    i,
				Slot:    pair.BaseID,
				Dropped: pair.FileID,
				Kept:    *slot,
			})
			logger.Printf("[ResolveIndex] slot full, dropping id: pair=%v slot=%v fileId=%v kept=%v,%v", i, pair.BaseID, pair.FileID, slot.BaseID, slot.FileID)
			continue
		}

		if slot.BaseID > 0 && slot.FileID > 0 && slot.BaseID > slot.FileID {
			slot.BaseID, slot.FileID = slot.FileID, slot.BaseID
		}
	}

	return index, conflicts, nil
}

func readIndex(r *FieldReader, entries []MFTEntry) ([]IDEntry, []IndexConflict, error) {
	if len(entries) <= IDTableEntryIndex {
		return nil, nil, indexErr("read id table", "id table lives in mft entry %d but the archive has %d entries", IDTableEntryIndex, len(entries))
	}

	pairs, err := decodeIDTable(r, entries[IDTableEntryIndex])
	if err != nil {
		return nil, nil, err
	}
	return ResolveIndex(pairs, len(entries))
}

func buildFileIDMap(index []IDEntry) map[uint32]int {
	fileIDs := make(map[uint32]int, len(index))
	for i, slot := range index {
		for _, id := range [2]uint32{slot.BaseID, slot.FileID} {
			if id == 0 {
				continue
			}
			if _, ok := fileIDs[id]; !ok {
				fileIDs[id] = i
			}
		}
	}
	return fileIDs
}
