package gw2datserver

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/ptolstoi/gw2datserver/gw2dat"
	"golang.org/x/exp/mmap"
)

type app struct {
	config Config

	archive *gw2dat.Archive
	reader  *mmap.ReaderAt

	db    *sql.DB
	cache *arc.ARCCache[int, *file]

	httpRouter *httprouter.Router
}

type App interface {
	http.Handler
	RunUntilSignal() error
	Close() error
}

func NewApp(config Config) (App, error) {
	return newApp(config)
}

func newApp(config Config) (*app, error) {
	if config.ArchivePath == "" {
		return nil, errors.New("no archive configured, set GW2DAT_PATH")
	}
	if config.CacheEntries <= 0 {
		config.CacheEntries = DefaultCacheEntries
	}

	archive, err := gw2dat.Open(config.ArchivePath)
	if err != nil {
		return nil, err
	}
	log.Printf("[newApp] loaded %v: entries=%v conflicts=%v", config.ArchivePath, archive.NumEntries(), len(archive.Conflicts))

	reader, err := mmap.Open(config.ArchivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "map %v", config.ArchivePath)
	}

	cache, err := arc.NewARC[int, *file](config.CacheEntries)
	if err != nil {
		_ = reader.Close()
		return nil, errors.Wrap(err, "create entry cache")
	}

	app := app{
		config:  config,
		archive: archive,
		reader:  reader,
		cache:   cache,
	}

	if err := app.initDB(); err != nil {
		_ = reader.Close()
		return nil, err
	}
	app.initHTTP()

	return &app, nil
}

func (app *app) RunUntilSignal() error {
	server := &http.Server{
		Addr:              app.config.Address,
		Handler:           app,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("[RunUntilSignal] listening on %v (version=%v buildTime=%v)", app.config.Address, app.config.Version, app.config.BuildTime)
		serverErrors <- server.ListenAndServe()
	}()

	stopChannel := make(chan os.Signal, 1)
	signal.Notify(stopChannel, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopChannel)

	select {
	case err := <-serverErrors:
		_ = app.Close()
		return err
	case sig := <-stopChannel:
		log.Printf("[RunUntilSignal] %v received, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	shutdownErr := server.Shutdown(ctx)

	if err := app.Close(); err != nil {
		return err
	}
	return shutdownErr
}

func (app *app) Close() error {
	dbErr := app.closeDB()
	if err := app.reader.Close(); err != nil {
		return errors.WithStack(err)
	}
	return dbErr
}
