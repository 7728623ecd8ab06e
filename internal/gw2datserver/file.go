package gw2datserver

import (
	"fmt"
	"log"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ptolstoi/gw2datserver/internal/fourcc"
)

const peekSize = 16

type file struct {
	entry        int
	content      []byte
	fileType     fourcc.FileType
	compressed   bool
	etag         string
	lastModified time.Time
}

func etagFor(content []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(content))
}

// loadEntry looks in memory, then in the sqlite cache, then in the archive.
func (app *app) loadEntry(index int) (*file, error) {
	if cached, ok := app.cache.Get(index); ok {
		return cached, nil
	}

	f, err := app.getFileFromCache(index)
	if f == nil && err == nil {
		f, err = app.readEntry(index)

		if err == nil && f != nil {
			err = app.saveFileToCache(f)
		}
	}
	if err != nil {
		return nil, err
	}

	app.cache.Add(index, f)
	return f, nil
}

func (app *app) readEntry(index int) (*file, error) {
	entry, err := app.archive.Entry(index)
	if err != nil {
		return nil, err
	}

	content, err := app.archive.ReadEntryAt(app.reader, index)
	if err != nil {
		return nil, err
	}

	fileType := fourcc.Unknown
	if !entry.Compressed() {
		fileType = fourcc.Detect(content)
	}

	log.Printf("[readEntry] entry=%v size=%v compressed=%v type=%v", index, len(content), entry.Compressed(), fileType)

	return &file{
		entry:        index,
		content:      content,
		fileType:     fileType,
		compressed:   entry.Compressed(),
		etag:         etagFor(content),
		lastModified: time.Now().UTC(),
	}, nil
}

// peekType classifies an entry from its first bytes without loading it.
func (app *app) peekType(index int) (fourcc.FileType, error) {
	entry, err := app.archive.Entry(index)
	if err != nil {
		return fourcc.Unknown, err
	}
	if entry.Compressed() || entry.Size == 0 {
		return fourcc.Unknown, nil
	}

	sr, err := app.archive.EntryReader(app.reader, index)
	if err != nil {
		return fourcc.Unknown, err
	}
	head := make([]byte, peekSize)
	n, err := sr.ReadAt(head, 0)
	if n == 0 && err != nil {
		return fourcc.Unknown, nil
	}
	return fourcc.Detect(head[:n]), nil
}
