// Package templatemark converts annotated document trees into plain
// commonmark trees. Template clauses and bound lists become fenced code
// blocks, bound variables become inline HTML-like tags, and the semantic
// fields the rewrite erases are preserved in synthetic tag descriptors.
package templatemark

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-templatemark/internal/commands"
	convertcmd "github.com/goliatone/go-templatemark/internal/commands/convert"
	"github.com/goliatone/go-templatemark/internal/conversion"
	"github.com/goliatone/go-templatemark/internal/dom"
	"github.com/goliatone/go-templatemark/internal/logging"
	"github.com/goliatone/go-templatemark/internal/logging/gologger"
	"github.com/goliatone/go-templatemark/internal/markdown"
	"github.com/goliatone/go-templatemark/internal/store"
	"github.com/goliatone/go-templatemark/pkg/interfaces"
)

// ErrStorageDatabaseRequired is returned when storage is enabled but no
// database handle was supplied.
var ErrStorageDatabaseRequired = errors.New("templatemark: storage enabled but no database handle provided")

// ErrStoreDisabled mirrors the archive sentinel for consumers of the module.
var ErrStoreDisabled = store.ErrStoreDisabled

// Exported contracts for consumers of the templatemark package.
type (
	ConversionService = interfaces.ConversionService
	ConversionResult  = interfaces.ConversionResult
	ConvertOptions    = interfaces.ConvertOptions
	Logger            = interfaces.Logger
	LoggerProvider    = interfaces.LoggerProvider

	// Node is the common contract of every tree node.
	Node = dom.Node
	// Document is the root node of a parsed or converted tree.
	Document = dom.Document

	// ConversionRecord is an archived conversion run.
	ConversionRecord = store.ConversionRecord

	// Metadata is the frontmatter carried by ingested markdown documents.
	Metadata = markdown.Metadata

	// ConvertDocumentCommand converts one document through the command bus.
	ConvertDocumentCommand = convertcmd.ConvertDocumentCommand
	// ConvertDocumentHandler executes ConvertDocumentCommand messages.
	ConvertDocumentHandler = convertcmd.ConvertDocumentHandler
	// ResultSink receives results from command-driven conversions.
	ResultSink = convertcmd.ResultSink
)

// Module is the top level runtime façade.
type Module struct {
	config   Config
	provider interfaces.LoggerProvider
	service  *conversion.Service
	archive  *store.BunConversionStore
	db       *bun.DB
}

type moduleDeps struct {
	sqldb           *sql.DB
	provider        interfaces.LoggerProvider
	cacheService    cache.CacheService
	cacheSerializer cache.KeySerializer
}

// Option overrides a module dependency.
type Option func(*moduleDeps)

// WithDatabase supplies the database handle backing the conversion archive.
// The caller owns the handle's lifecycle.
func WithDatabase(sqldb *sql.DB) Option {
	return func(d *moduleDeps) { d.sqldb = sqldb }
}

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(d *moduleDeps) { d.provider = provider }
}

// WithRepositoryCache enables read-through caching on the conversion archive.
func WithRepositoryCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(d *moduleDeps) {
		d.cacheService = service
		d.cacheSerializer = serializer
	}
}

// New constructs a module from the supplied configuration and overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps := moduleDeps{}
	for _, opt := range opts {
		opt(&deps)
	}

	provider := deps.provider
	if provider == nil {
		built, err := buildProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		provider = built
	}

	m := &Module{
		config:   cfg,
		provider: provider,
	}

	if cfg.Storage.Enabled {
		if deps.sqldb == nil {
			return nil, ErrStorageDatabaseRequired
		}
		db, err := store.NewDB(deps.sqldb, strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(context.Background(), db); err != nil {
			return nil, err
		}
		m.db = db
		m.archive = store.NewBunConversionStoreWithCache(db, deps.cacheService, deps.cacheSerializer)
	}

	serviceOpts := []conversion.Option{
		conversion.WithLogger(logging.TransformLogger(provider)),
		conversion.WithWrapVariables(cfg.Conversion.WrapVariables),
	}
	if m.archive != nil {
		serviceOpts = append(serviceOpts, conversion.WithArchive(m.archive))
	}
	m.service = conversion.New(serviceOpts...)

	return m, nil
}

// Conversion returns the configured conversion service.
func (m *Module) Conversion() ConversionService {
	return m.service
}

// Archive returns the conversion archive, or nil when storage is disabled.
func (m *Module) Archive() *store.BunConversionStore {
	if m == nil {
		return nil
	}
	return m.archive
}

// DB exposes the underlying bun handle for advanced integrations. Nil when
// storage is disabled.
func (m *Module) DB() *bun.DB {
	if m == nil {
		return nil
	}
	return m.db
}

// ConvertCommand builds a command handler bound to this module's conversion
// service. The sink receives each successful result and may be nil.
func (m *Module) ConvertCommand(sink ResultSink) *ConvertDocumentHandler {
	logger := commands.CommandLogger(m.provider, "convert")
	return convertcmd.NewConvertDocumentHandler(m.service, logger, sink)
}

// ParseMarkdown ingests commonmark text into the node model.
func (m *Module) ParseMarkdown(source []byte) (*Document, error) {
	return m.service.ParseMarkdown(source)
}

// RenderMarkdown renders a plain-schema node as commonmark text.
func (m *Module) RenderMarkdown(node Node) (string, error) {
	return m.service.RenderMarkdown(node)
}

// IngestMarkdown splits frontmatter from source and parses the body into the
// node model.
func (m *Module) IngestMarkdown(source []byte) (*Document, Metadata, error) {
	return m.service.IngestMarkdown(source)
}

// ConvertMarkdown ingests commonmark text and runs it through the conversion
// pipeline, returning the canonical tree, the normalised markdown, and the
// document's frontmatter.
func (m *Module) ConvertMarkdown(ctx context.Context, source []byte, opts ConvertOptions) (*ConversionResult, Metadata, error) {
	return m.service.ConvertMarkdown(ctx, source, opts)
}

// CanonicalForm encodes a node as its canonical map form.
func (m *Module) CanonicalForm(node Node) (map[string]any, error) {
	return m.service.CanonicalForm(node)
}

func buildProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "noop":
		return nil, nil
	default:
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
	}
}
