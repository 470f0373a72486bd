package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ebxkit/internal/logger"
	"github.com/samcharles93/ebxkit/internal/source"
	"github.com/samcharles93/ebxkit/pkg/ebx"
	"github.com/samcharles93/ebxkit/pkg/ebx/printer"
)

const (
	headerRequestID = "X-Request-Id"
	headerEBXID     = "X-Ebx-Id"

	mimeJSON = "application/json"
	mimeXML  = "application/xml; charset=utf-8"
	mimeText = "text/plain; charset=utf-8"

	formatSummary = "summary"
	formatReport  = "report"
)

// Config configures a Server.
type Config struct {
	// CacheSize bounds the number of decoded files kept. Default: DefaultCacheSize
	CacheSize int
	// MaxBodySize bounds uploads after decompression. Default: source.DefaultMaxSize
	MaxBodySize int64
	Decoder     ebx.Options
	GUIDFormat  printer.GUIDFormat
	Logger      logger.Logger
}

type Server struct {
	store   *Store
	maxBody int64
	decoder ebx.Options
	guids   printer.GUIDFormat
	log     logger.Logger
	clock   func() time.Time
}

func NewServer(cfg Config) (*Server, error) {
	store, err := NewStore(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		store:   store,
		maxBody: cfg.MaxBodySize,
		decoder: cfg.Decoder,
		guids:   cfg.GUIDFormat,
		log:     log,
		clock:   time.Now,
	}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/ebx", s.handleDecode, requestID)
	e.GET("/v1/ebx", s.handleList, requestID)
	e.GET("/v1/ebx/:id", s.handleGet, requestID)
	e.GET("/v1/ebx/:id/instances/:guid", s.handleInstance, requestID)
	e.DELETE("/v1/ebx/:id", s.handleDelete, requestID)
}

func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(headerRequestID, id)
		return next(c)
	}
}

// FileSummary describes a cached decoded file.
type FileSummary struct {
	ID          string            `json:"id"`
	GUID        string            `json:"guid"`
	Size        int               `json:"size"`
	Compressed  bool              `json:"compressed,omitempty"`
	DecodedAt   time.Time         `json:"decoded_at"`
	Imports     int               `json:"imports"`
	Keywords    int               `json:"keywords"`
	Types       int               `json:"types"`
	FieldErrors int               `json:"field_errors"`
	Instances   []InstanceSummary `json:"instances"`
}

type InstanceSummary struct {
	Index     int    `json:"index"`
	GUID      string `json:"guid"`
	Type      string `json:"type"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

type ListResponse struct {
	Object string        `json:"object"`
	Data   []FileSummary `json:"data"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) handleDecode(c *echo.Context) error {
	payload, err := source.ReadAll(c.Request().Body, s.maxBody)
	if err != nil {
		return writeDecodeError(c, err)
	}
	data := payload.Data
	id := ContentID(data)
	entry, ok := s.store.Get(id)
	if !ok {
		f, err := ebx.DecodeWithOptions(data, s.decoder)
		if err != nil {
			s.log.Warn("decode failed", "id", shortID(id), "size", len(data), "error", err)
			return writeDecodeError(c, err)
		}
		entry = &Entry{
			ID:         id,
			Size:       len(data),
			Compressed: payload.Compressed,
			DecodedAt:  s.clock(),
			File:       f,
		}
		s.store.Put(entry)
		s.logDecoded(entry)
	}
	return s.render(c, http.StatusCreated, entry, c.QueryParam("format"), nil)
}

func (s *Server) logDecoded(e *Entry) {
	fieldErrs := e.File.FieldErrors()
	s.log.Info("decoded ebx",
		"id", shortID(e.ID),
		"size", e.Size,
		"instances", len(e.File.Instances),
		"field_errors", len(fieldErrs),
	)
	for _, fe := range fieldErrs {
		s.log.Debug("field error", "id", shortID(e.ID), "path", fe.Path, "offset", fe.Offset, "error", fe.Err)
	}
}

func (s *Server) handleList(c *echo.Context) error {
	entries := s.store.List()
	resp := ListResponse{Object: "list", Data: make([]FileSummary, 0, len(entries))}
	for _, e := range entries {
		resp.Data = append(resp.Data, s.summary(e))
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *Server) handleGet(c *echo.Context) error {
	entry, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "ebx file not found")
	}
	return s.render(c, http.StatusOK, entry, c.QueryParam("format"), nil)
}

func (s *Server) handleInstance(c *echo.Context) error {
	entry, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "ebx file not found")
	}
	g, err := ebx.ParseGUID(c.Param("guid"))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	format := c.QueryParam("format")
	if format == "" || format == formatSummary {
		format = string(printer.FormatJSON)
	}
	return s.render(c, http.StatusOK, entry, format, &g)
}

func (s *Server) handleDelete(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "ebx file not found")
	}
	return writeJSON(c, http.StatusOK, DeleteResponse{ID: id, Deleted: true})
}

func (s *Server) render(c *echo.Context, status int, e *Entry, format string, inst *ebx.GUID) error {
	c.Response().Header().Set(headerEBXID, e.ID)

	opts := printer.DefaultOptions()
	opts.GUIDFormat = s.guids
	opts.Instance = inst

	var buf bytes.Buffer
	switch format {
	case "", formatSummary:
		return writeJSON(c, status, s.summary(e))
	case formatReport:
		buf.WriteString(e.File.Report())
		buf.WriteByte('\n')
		if err := ebx.WriteTables(&buf, e.File); err != nil {
			return writeDecodeError(c, err)
		}
		return c.Blob(status, mimeText, buf.Bytes())
	}

	f, err := printer.ParseFormat(format)
	if err != nil {
		return writeDecodeError(c, newInvalidRequest(err.Error()))
	}
	opts.Format = f
	opts.Header = inst == nil
	if err := printer.Print(&buf, e.File, opts); err != nil {
		return writeDecodeError(c, err)
	}
	switch f {
	case printer.FormatJSON:
		return c.Blob(status, mimeJSON, buf.Bytes())
	case printer.FormatXML:
		return c.Blob(status, mimeXML, buf.Bytes())
	default:
		return c.Blob(status, mimeText, buf.Bytes())
	}
}

func (s *Server) summary(e *Entry) FileSummary {
	opts := printer.Options{GUIDFormat: s.guids}
	f := e.File
	out := FileSummary{
		ID:          e.ID,
		GUID:        opts.FormatGUID(f.GUID),
		Size:        e.Size,
		Compressed:  e.Compressed,
		DecodedAt:   e.DecodedAt,
		Imports:     len(f.Imports),
		Keywords:    f.Keywords.Len(),
		Types:       len(f.Types),
		FieldErrors: len(f.FieldErrors()),
		Instances:   make([]InstanceSummary, 0, len(f.Instances)),
	}
	for i := range f.Instances {
		inst := &f.Instances[i]
		out.Instances = append(out.Instances, InstanceSummary{
			Index:     i,
			GUID:      opts.FormatGUID(inst.GUID),
			Type:      inst.TypeName(),
			Synthetic: inst.Synthetic,
		})
	}
	return out
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, mimeJSON, b)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
