package interfaces

import "context"

// ConvertOptions tunes a single conversion run.
type ConvertOptions struct {
	// WrapVariables controls whether inline variables keep their tag wrapper
	// in the converted text. Nil falls back to the service default.
	WrapVariables *bool
}

// ConversionResult carries the outcome of a conversion run in canonical form.
type ConversionResult struct {
	// Converted is the canonical map form of the rewritten tree.
	Converted map[string]any `json:"converted"`
	// Markdown is the rendered commonmark body of the rewritten tree.
	Markdown string `json:"markdown"`
}

// ConversionService converts annotated document trees into their plain
// commonmark counterparts.
type ConversionService interface {
	// Convert validates the canonical source tree, rewrites template nodes,
	// and returns the converted tree with its markdown rendering.
	Convert(ctx context.Context, source map[string]any, opts ConvertOptions) (*ConversionResult, error)
	// ConvertAndArchive performs Convert and persists the run under slug.
	// It fails with the service's disabled-store error when no archive is
	// configured.
	ConvertAndArchive(ctx context.Context, slug string, source map[string]any, opts ConvertOptions) (*ConversionResult, error)
}
