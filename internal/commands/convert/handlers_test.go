package convertcmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-templatemark/pkg/interfaces"
)

type convertCall struct {
	slug     string
	source   map[string]any
	options  interfaces.ConvertOptions
	archived bool
}

type stubConversionService struct {
	calls  []convertCall
	result *interfaces.ConversionResult
	err    error
}

func (s *stubConversionService) Convert(_ context.Context, source map[string]any, opts interfaces.ConvertOptions) (*interfaces.ConversionResult, error) {
	s.calls = append(s.calls, convertCall{source: source, options: opts})
	return s.result, s.err
}

func (s *stubConversionService) ConvertAndArchive(_ context.Context, slug string, source map[string]any, opts interfaces.ConvertOptions) (*interfaces.ConversionResult, error) {
	s.calls = append(s.calls, convertCall{slug: slug, source: source, options: opts, archived: true})
	return s.result, s.err
}

func TestConvertDocumentHandlerConverts(t *testing.T) {
	service := &stubConversionService{
		result: &interfaces.ConversionResult{Markdown: "converted\n"},
	}

	var delivered *interfaces.ConversionResult
	handler := NewConvertDocumentHandler(service, nil, func(result *interfaces.ConversionResult) {
		delivered = result
	})

	cmd := ConvertDocumentCommand{Source: validSource()}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(service.calls) != 1 {
		t.Fatalf("expected one service call, got %d", len(service.calls))
	}
	if service.calls[0].archived {
		t.Fatal("expected Convert, got ConvertAndArchive")
	}
	if delivered == nil || delivered.Markdown != "converted\n" {
		t.Fatalf("sink result = %+v", delivered)
	}
}

func TestConvertDocumentHandlerArchives(t *testing.T) {
	service := &stubConversionService{
		result: &interfaces.ConversionResult{Markdown: "converted\n"},
	}
	handler := NewConvertDocumentHandler(service, nil, nil)

	wrap := false
	cmd := ConvertDocumentCommand{
		Source:        validSource(),
		Slug:          "payment-terms",
		Archive:       true,
		WrapVariables: &wrap,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(service.calls) != 1 {
		t.Fatalf("expected one service call, got %d", len(service.calls))
	}
	call := service.calls[0]
	if !call.archived || call.slug != "payment-terms" {
		t.Fatalf("expected archived call with slug, got %+v", call)
	}
	if call.options.WrapVariables == nil || *call.options.WrapVariables {
		t.Fatalf("expected wrap override false, got %+v", call.options.WrapVariables)
	}
}

func TestConvertDocumentHandlerValidatesMessage(t *testing.T) {
	service := &stubConversionService{}
	handler := NewConvertDocumentHandler(service, nil, nil)

	err := handler.Execute(context.Background(), ConvertDocumentCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.calls) != 0 {
		t.Fatal("expected service not to be called on invalid message")
	}
}

func TestConvertDocumentHandlerWrapsServiceError(t *testing.T) {
	service := &stubConversionService{err: errors.New("boom")}
	handler := NewConvertDocumentHandler(service, nil, nil)

	err := handler.Execute(context.Background(), ConvertDocumentCommand{Source: validSource()})
	if err == nil {
		t.Fatal("expected service error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
