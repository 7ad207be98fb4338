package convertcmd

import (
	"context"

	"github.com/goliatone/go-templatemark/internal/commands"
	"github.com/goliatone/go-templatemark/internal/logging"
	"github.com/goliatone/go-templatemark/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const convertOperation = "convert.document"

var _ command.Commander[ConvertDocumentCommand] = (*ConvertDocumentHandler)(nil)

// ResultSink receives the conversion outcome of a successful run. Commands
// carry no return values, so callers that need the result provide a sink.
type ResultSink func(*interfaces.ConversionResult)

// ConvertDocumentHandler runs document conversions through the shared command
// handler foundation.
type ConvertDocumentHandler struct {
	inner *commands.Handler[ConvertDocumentCommand]
}

// NewConvertDocumentHandler creates a handler bound to the supplied conversion service.
func NewConvertDocumentHandler(service interfaces.ConversionService, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[ConvertDocumentCommand]) *ConvertDocumentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ConvertDocumentCommand) error {
		convertOpts := interfaces.ConvertOptions{
			WrapVariables: msg.WrapVariables,
		}

		var (
			result *interfaces.ConversionResult
			err    error
		)
		if msg.Archive {
			result, err = service.ConvertAndArchive(ctx, msg.Slug, msg.Source, convertOpts)
		} else {
			result, err = service.Convert(ctx, msg.Source, convertOpts)
		}
		if err != nil {
			return err
		}

		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"markdown_bytes": len(result.Markdown),
				"archived":       msg.Archive,
			}).Info("convert.command.document.completed")
			if sink != nil {
				sink(result)
			}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ConvertDocumentCommand]{
		commands.WithLogger[ConvertDocumentCommand](baseLogger),
		commands.WithOperation[ConvertDocumentCommand](convertOperation),
		commands.WithMessageFields(func(msg ConvertDocumentCommand) map[string]any {
			fields := map[string]any{}
			if msg.Slug != "" {
				fields["slug"] = msg.Slug
			}
			if msg.Archive {
				fields["archive"] = true
			}
			if msg.WrapVariables != nil {
				fields["wrap_variables"] = *msg.WrapVariables
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ConvertDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ConvertDocumentCommand].
func (h *ConvertDocumentHandler) Execute(ctx context.Context, msg ConvertDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
