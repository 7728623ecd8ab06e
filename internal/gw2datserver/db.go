package gw2datserver

import (
	"database/sql"
	"log"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/ptolstoi/gw2datserver/internal/fourcc"
)

func (app *app) initDB() error {
	db, err := sql.Open("sqlite3", app.config.CachePath)
	if err != nil {
		return errors.Wrapf(err, "open cache %v", app.config.CachePath)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS
			raw
		(
			archive TEXT NOT NULL,
			entry INTEGER NOT NULL,
			crc INTEGER NOT NULL,
			counter INTEGER NOT NULL,
			lastModified TEXT,
			fileType TEXT,
			content BLOB,

			CONSTRAINT archive_entry UNIQUE (archive, entry)
		)
	`)
	if err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create cache table")
	}

	app.db = db
	return nil
}

func (app *app) archiveKey() string {
	return filepath.Base(app.config.ArchivePath)
}

// getFileFromCache returns nil, nil when the entry is not cached or the
// cached copy no longer matches the entry's crc and counter.
func (app *app) getFileFromCache(index int) (*file, error) {
	entry, err := app.archive.Entry(index)
	if err != nil {
		return nil, err
	}

	log.Printf("[getFileFromCache] %v %v", app.archiveKey(), index)

	row := app.db.QueryRow(`
	SELECT
		lastModified,
		fileType,
		content
	FROM
		raw
	WHERE
		archive = ? AND entry = ? AND crc = ? AND counter = ?`, app.archiveKey(), index, entry.CRC, entry.Counter)

	file := file{entry: index, compressed: entry.Compressed()}
	var lastModified string
	var fileType string

	err = row.Scan(
		&lastModified,
		&fileType,
		&file.content,
	)

	if err != nil && err != sql.ErrNoRows {
		return nil, errors.WithStack(err)
	} else if err == sql.ErrNoRows {
		log.Printf("[getFileFromCache] not found")
		return nil, nil
	}

	file.fileType = fourcc.FileType(fileType)
	file.etag = etagFor(file.content)
	file.lastModified, err = time.Parse(time.RFC1123Z, lastModified)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &file, nil
}

func (app *app) saveFileToCache(file *file) error {
	log.Printf("[saveFileToCache] %v %v %v", app.archiveKey(), file.entry, file.fileType)

	entry, err := app.archive.Entry(file.entry)
	if err != nil {
		return err
	}

	lastModified := file.lastModified.Format(time.RFC1123Z)

	_, err = app.db.Exec(`
		INSERT OR REPLACE INTO
			raw
				(
					archive, entry, crc, counter, lastModified, fileType, content
				)
		VALUES
				(?, ?, ?, ?, ?, ?, ?)
	`, app.archiveKey(), file.entry, entry.CRC, entry.Counter, lastModified, string(file.fileType), file.content)

	return errors.WithStack(err)
}

func (app *app) closeDB() error {
	return errors.WithStack(app.db.Close())
}
