package gw2datserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/ptolstoi/gw2datserver/gw2dat"
	"github.com/ptolstoi/gw2datserver/internal/fourcc"
)

const (
	contentType = "content-type"
	mimeJSON    = "application/json"
	mimeCBOR    = "application/cbor"

	defaultPageSize = 100
	maxPageSize     = 1000
)

var (
	errBadRequest = errors.New("bad request")
	errNotFound   = errors.New("not found")
)

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("gw2datserver: CBOR encoder initialization failed: " + err.Error())
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type archiveResponse struct {
	Path      string           `json:"path"`
	Header    gw2dat.Header    `json:"header"`
	MFTHeader gw2dat.MFTHeader `json:"mftHeader"`
	Entries   int              `json:"entries"`
	Conflicts int              `json:"conflicts"`
}

type entryResponse struct {
	Index      int             `json:"index"`
	Entry      gw2dat.MFTEntry `json:"entry"`
	InUse      bool            `json:"inUse"`
	Compressed bool            `json:"compressed"`
	FileIDs    gw2dat.IDEntry  `json:"fileIds"`
	Type       fourcc.FileType `json:"type"`
}

type entriesResponse struct {
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
	Total   int             `json:"total"`
	Entries []entryResponse `json:"entries"`
}

func (app *app) initHTTP() {
	app.httpRouter = httprouter.New()
	app.httpRouter.GET("/v1/archive", app.serveArchive)
	app.httpRouter.GET("/v1/entries", app.serveEntries)
	app.httpRouter.GET("/v1/entry/:index", app.serveEntry)
	app.httpRouter.GET("/v1/entry/:index/raw", app.serveEntryRaw)
	app.httpRouter.GET("/v1/file/:fileID", app.serveFile)
}

func (app *app) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	log.Printf("%v %v", req.Method, req.URL)

	app.httpRouter.ServeHTTP(w, req)
}

func (app *app) serveArchive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	app.respond(w, r, http.StatusOK, archiveResponse{
		Path:      app.archiveKey(),
		Header:    app.archive.Header,
		MFTHeader: app.archive.MFTHeader,
		Entries:   app.archive.NumEntries(),
		Conflicts: len(app.archive.Conflicts),
	})
}

func (app *app) serveEntries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	offset, err := queryInt(query.Get("offset"), 0)
	if err != nil || offset < 0 {
		app.fail(w, r, errors.Wrapf(errBadRequest, "offset %q", query.Get("offset")))
		return
	}
	limit, err := queryInt(query.Get("limit"), defaultPageSize)
	if err != nil || limit <= 0 {
		app.fail(w, r, errors.Wrapf(errBadRequest, "limit %q", query.Get("limit")))
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total := app.archive.NumEntries()
	page := entriesResponse{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		Entries: []entryResponse{},
	}
	for i := offset; i < total && i < offset+limit; i++ {
		entry, err := app.describeEntry(i)
		if err != nil {
			app.fail(w, r, err)
			return
		}
		page.Entries = append(page.Entries, entry)
	}

	app.respond(w, r, http.StatusOK, page)
}

func (app *app) serveEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := strconv.Atoi(ps.ByName("index"))
	if err != nil {
		app.fail(w, r, errors.Wrapf(errBadRequest, "entry index %q", ps.ByName("index")))
		return
	}

	entry, err := app.describeEntry(index)
	if err != nil {
		app.fail(w, r, err)
		return
	}
	app.respond(w, r, http.StatusOK, entry)
}

func (app *app) serveEntryRaw(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := strconv.Atoi(ps.ByName("index"))
	if err != nil {
		app.fail(w, r, errors.Wrapf(errBadRequest, "entry index %q", ps.ByName("index")))
		return
	}

	app.serveContent(w, r, index)
}

func (app *app) serveFile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fileID, err := strconv.ParseUint(ps.ByName("fileID"), 10, 32)
	if err != nil {
		app.fail(w, r, errors.Wrapf(errBadRequest, "file id %q", ps.ByName("fileID")))
		return
	}

	index, ok := app.archive.EntryForFileID(uint32(fileID))
	if !ok {
		app.fail(w, r, errors.Wrapf(errNotFound, "file id %v", fileID))
		return
	}

	app.serveContent(w, r, index)
}

func (app *app) serveContent(w http.ResponseWriter, r *http.Request, index int) {
	file, err := app.loadEntry(index)
	if err != nil {
		app.fail(w, r, err)
		return
	}

	log.Printf("[serveContent] entry found: %v %v %v", file.entry, file.fileType, len(file.content))

	headers := w.Header()
	headers.Set("etag", file.etag)
	if etagMatches(r.Header.Get("if-none-match"), file.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	headers.Set(contentType, file.fileType.ContentType())
	headers.Set("x-gw2dat-type", string(file.fileType))
	headers.Set("x-gw2dat-compressed", strconv.FormatBool(file.compressed))
	headers.Set("last-modified", file.lastModified.Format(http.TimeFormat))
	_, _ = w.Write(file.content)
}

func (app *app) describeEntry(index int) (entryResponse, error) {
	entry, err := app.archive.Entry(index)
	if err != nil {
		return entryResponse{}, err
	}
	ids, err := app.archive.FileIDs(index)
	if err != nil {
		return entryResponse{}, err
	}
	fileType, err := app.peekType(index)
	if err != nil {
		return entryResponse{}, err
	}

	return entryResponse{
		Index:      index,
		Entry:      entry,
		InUse:      entry.InUse(),
		Compressed: entry.Compressed(),
		FileIDs:    ids,
		Type:       fileType,
	}, nil
}

func (app *app) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	headers := w.Header()

	if strings.Contains(r.Header.Get("accept"), mimeCBOR) {
		data, err := cborEncMode.Marshal(v)
		if err != nil {
			log.Printf("[respond] cbor: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		headers.Set(contentType, mimeCBOR)
		w.WriteHeader(status)
		_, _ = w.Write(data)
		return
	}

	headers.Set(contentType, mimeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[respond] json: %v", err)
	}
}

func (app *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[fail] %v %v: %+v", r.Method, r.URL, err)
	}
	app.respond(w, r, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, gw2dat.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errNotFound), errors.Is(err, gw2dat.ErrIndex):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// etagMatches uses the weak comparison of If-None-Match.
func etagMatches(header string, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func queryInt(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
