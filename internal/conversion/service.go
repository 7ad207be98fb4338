// Package conversion wires the node registry, schema validation, the tree
// rewrite, and markdown rendering into the module's conversion service.
package conversion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-templatemark/internal/dom"
	"github.com/goliatone/go-templatemark/internal/identity"
	"github.com/goliatone/go-templatemark/internal/logging"
	"github.com/goliatone/go-templatemark/internal/markdown"
	"github.com/goliatone/go-templatemark/internal/render"
	"github.com/goliatone/go-templatemark/internal/schema"
	"github.com/goliatone/go-templatemark/internal/store"
	"github.com/goliatone/go-templatemark/internal/transform"
	"github.com/goliatone/go-templatemark/internal/validation"
	"github.com/goliatone/go-templatemark/pkg/interfaces"
)

// Archive persists conversion runs. The bun-backed store satisfies this.
type Archive interface {
	Save(ctx context.Context, record *store.ConversionRecord) (*store.ConversionRecord, error)
}

// Service converts annotated trees into their plain commonmark form.
type Service struct {
	registry  *schema.Registry
	validator *validation.Validator
	renderer  *render.Markdown
	parser    *markdown.Parser
	archive   Archive
	logger    interfaces.Logger
	wrapVars  bool
}

// Option customises a Service.
type Option func(*Service)

// WithArchive attaches a conversion archive; without one, archive operations
// fail with store.ErrStoreDisabled.
func WithArchive(archive Archive) Option {
	return func(s *Service) { s.archive = archive }
}

// WithLogger sets the structured logger used for conversion runs.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWrapVariables sets the default wrap behaviour for converted variables.
func WithWrapVariables(wrap bool) Option {
	return func(s *Service) { s.wrapVars = wrap }
}

// New constructs a Service with the closed node registry and its validator.
func New(opts ...Option) *Service {
	registry := schema.NewRegistry()
	s := &Service{
		registry:  registry,
		validator: validation.New(registry),
		renderer:  render.NewMarkdown(),
		parser:    markdown.NewParser(),
		logger:    logging.NoOp(),
		wrapVars:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.ConversionService = (*Service)(nil)

// ConvertTree rewrites the annotated tree rooted at node and returns the
// replacement root. The input tree is modified in place below the root.
func (s *Service) ConvertTree(ctx context.Context, node dom.Node, opts interfaces.ConvertOptions) (dom.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tctx := transform.NewContext(s.validator, s.renderer, registryAdapter{s.registry})
	tctx.Options.WrapVariables = s.wrapVariables(opts)
	return transform.Apply(node, tctx)
}

// Convert validates the canonical source form, rewrites the tree, and returns
// the converted canonical form with its markdown rendering.
func (s *Service) Convert(ctx context.Context, source map[string]any, opts interfaces.ConvertOptions) (*interfaces.ConversionResult, error) {
	root, err := s.validator.FromCandidate(source)
	if err != nil {
		return nil, fmt.Errorf("conversion: invalid source tree: %w", err)
	}

	converted, err := s.ConvertTree(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	canonical, err := s.validator.ToCanonicalForm(converted)
	if err != nil {
		return nil, fmt.Errorf("conversion: encode converted tree: %w", err)
	}

	body, err := s.renderMarkdown(converted)
	if err != nil {
		return nil, fmt.Errorf("conversion: render markdown: %w", err)
	}

	logging.WithFields(s.logger, map[string]any{
		"source_class":   source["$class"],
		"markdown_bytes": len(body),
	}).Debug("conversion.convert.completed")

	return &interfaces.ConversionResult{
		Converted: canonical,
		Markdown:  body,
	}, nil
}

// ConvertAndArchive performs Convert and persists the run under a normalized
// slug keyed by the source digest.
func (s *Service) ConvertAndArchive(ctx context.Context, rawSlug string, source map[string]any, opts interfaces.ConvertOptions) (*interfaces.ConversionResult, error) {
	if s.archive == nil {
		return nil, store.ErrStoreDisabled
	}
	if strings.TrimSpace(rawSlug) == "" {
		return nil, fmt.Errorf("conversion: archive slug is required")
	}
	normalized, err := slug.Normalize(rawSlug)
	if err != nil {
		return nil, fmt.Errorf("conversion: normalize slug: %w", err)
	}

	result, err := s.Convert(ctx, source, opts)
	if err != nil {
		return nil, err
	}

	digest, err := sourceDigest(source)
	if err != nil {
		return nil, err
	}

	record := &store.ConversionRecord{
		ID:            identity.ConversionUUID(digest),
		Slug:          normalized,
		SourceDigest:  digest,
		Source:        source,
		Converted:     result.Converted,
		Markdown:      result.Markdown,
		WrapVariables: s.wrapVariables(opts),
	}
	if _, err := s.archive.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("conversion: archive run: %w", err)
	}

	logging.WithFields(s.logger, map[string]any{
		"slug":   normalized,
		"digest": digest,
	}).Info("conversion.archive.saved")

	return result, nil
}

// ConvertMarkdown ingests commonmark text and runs it through the conversion
// pipeline. Ingested trees carry no template nodes, so the rewrite is a
// pass-through; the value is one call producing the canonical tree, the
// normalised markdown, and the document's frontmatter.
func (s *Service) ConvertMarkdown(ctx context.Context, source []byte, opts interfaces.ConvertOptions) (*interfaces.ConversionResult, markdown.Metadata, error) {
	doc, meta, err := s.IngestMarkdown(source)
	if err != nil {
		return nil, markdown.Metadata{}, err
	}

	converted, err := s.ConvertTree(ctx, doc, opts)
	if err != nil {
		return nil, markdown.Metadata{}, err
	}
	canonical, err := s.validator.ToCanonicalForm(converted)
	if err != nil {
		return nil, markdown.Metadata{}, fmt.Errorf("conversion: encode converted tree: %w", err)
	}
	body, err := s.renderMarkdown(converted)
	if err != nil {
		return nil, markdown.Metadata{}, fmt.Errorf("conversion: render markdown: %w", err)
	}

	return &interfaces.ConversionResult{Converted: canonical, Markdown: body}, meta, nil
}

// RenderMarkdown renders any plain-schema node as commonmark text.
func (s *Service) RenderMarkdown(node dom.Node) (string, error) {
	return s.renderMarkdown(node)
}

// ParseMarkdown ingests commonmark text into the node model.
func (s *Service) ParseMarkdown(source []byte) (*dom.Document, error) {
	return s.parser.Parse(source)
}

// IngestMarkdown splits frontmatter from source and parses the body into the
// node model.
func (s *Service) IngestMarkdown(source []byte) (*dom.Document, markdown.Metadata, error) {
	meta, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return nil, markdown.Metadata{}, err
	}
	doc, err := s.parser.Parse(body)
	if err != nil {
		return nil, markdown.Metadata{}, err
	}
	return doc, meta, nil
}

// CanonicalForm encodes a node as its canonical map form.
func (s *Service) CanonicalForm(node dom.Node) (map[string]any, error) {
	return s.validator.ToCanonicalForm(node)
}

func (s *Service) wrapVariables(opts interfaces.ConvertOptions) bool {
	if opts.WrapVariables != nil {
		return *opts.WrapVariables
	}
	return s.wrapVars
}

// renderMarkdown wraps non-document roots so block and inline nodes render
// through the document path.
func (s *Service) renderMarkdown(node dom.Node) (string, error) {
	switch node.(type) {
	case *dom.Document:
		return s.renderer.Render(node)
	}
	if isInline(node.Class()) {
		node = &dom.Paragraph{Nodes: []dom.Node{node}}
	}
	doc := &dom.Document{Xmlns: dom.DocumentNamespace, Nodes: []dom.Node{node}}
	return s.renderer.Render(doc)
}

func isInline(class string) bool {
	switch class {
	case dom.KindText, dom.KindEmphasis, dom.KindStrong, dom.KindCode,
		dom.KindLink, dom.KindHtmlInline, dom.KindSoftbreak, dom.KindLinebreak:
		return true
	default:
		return false
	}
}

// sourceDigest hashes the canonical JSON form of the source tree. Map keys
// marshal in sorted order, so equal trees share a digest.
func sourceDigest(source map[string]any) (string, error) {
	payload, err := json.Marshal(source)
	if err != nil {
		return "", fmt.Errorf("conversion: digest source: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// registryAdapter narrows the concrete registry to the rewrite's lookup
// contract.
type registryAdapter struct {
	inner *schema.Registry
}

func (r registryAdapter) KindByName(name string) (transform.Kind, error) {
	return r.inner.KindByName(name)
}
