package conversion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-templatemark/internal/dom"
	"github.com/goliatone/go-templatemark/internal/identity"
	"github.com/goliatone/go-templatemark/internal/store"
	"github.com/goliatone/go-templatemark/internal/validation"
	"github.com/goliatone/go-templatemark/pkg/interfaces"
)

type recordingArchive struct {
	saved []*store.ConversionRecord
	err   error
}

func (a *recordingArchive) Save(_ context.Context, record *store.ConversionRecord) (*store.ConversionRecord, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.saved = append(a.saved, record)
	return record, nil
}

func variableSource() map[string]any {
	return map[string]any{
		"$class": dom.KindVariable,
		"id":     "amount",
		"value":  "100 EUR",
	}
}

func clauseDocumentSource() map[string]any {
	return map[string]any{
		"$class": dom.KindDocument,
		"xmlns":  dom.DocumentNamespace,
		"nodes": []any{
			map[string]any{
				"$class":   dom.KindClause,
				"src":      "ap://terms@0.1.0",
				"clauseid": "clause-1",
				"nodes": []any{
					map[string]any{
						"$class": dom.KindParagraph,
						"nodes": []any{
							map[string]any{"$class": dom.KindText, "text": "Payment is due."},
						},
					},
				},
			},
		},
	}
}

func TestServiceConvertVariable(t *testing.T) {
	svc := New()

	result, err := svc.Convert(context.Background(), variableSource(), interfaces.ConvertOptions{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if got := result.Converted["$class"]; got != dom.KindHtmlInline {
		t.Fatalf("converted class = %v, want %s", got, dom.KindHtmlInline)
	}
	want := `<variable id="amount" value="100%20EUR"/>`
	if result.Markdown != want {
		t.Fatalf("Markdown = %q, want %q", result.Markdown, want)
	}
}

func TestServiceConvertVariableUnwrapped(t *testing.T) {
	wrap := false
	svc := New()

	result, err := svc.Convert(context.Background(), variableSource(), interfaces.ConvertOptions{WrapVariables: &wrap})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Markdown != "100 EUR" {
		t.Fatalf("Markdown = %q, want raw value", result.Markdown)
	}
}

func TestServiceConvertClauseDocument(t *testing.T) {
	svc := New()

	result, err := svc.Convert(context.Background(), clauseDocumentSource(), interfaces.ConvertOptions{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := "```" + `<clause src="ap://terms@0.1.0" clauseid="clause-1"/>` + "\nPayment is due.\n```"
	if result.Markdown != want {
		t.Fatalf("Markdown = %q, want %q", result.Markdown, want)
	}
}

func TestServiceConvertRejectsInvalidSource(t *testing.T) {
	svc := New()

	_, err := svc.Convert(context.Background(), map[string]any{
		"$class": dom.KindVariable,
		"id":     "amount",
	}, interfaces.ConvertOptions{})
	if err == nil {
		t.Fatal("expected invalid source to fail")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestServiceConvertAndArchive(t *testing.T) {
	archive := &recordingArchive{}
	svc := New(WithArchive(archive))

	source := clauseDocumentSource()
	result, err := svc.ConvertAndArchive(context.Background(), "Payment Terms", source, interfaces.ConvertOptions{})
	if err != nil {
		t.Fatalf("ConvertAndArchive() error = %v", err)
	}
	if len(archive.saved) != 1 {
		t.Fatalf("expected one archived record, got %d", len(archive.saved))
	}

	record := archive.saved[0]
	if record.Slug != "payment-terms" {
		t.Fatalf("record slug = %q", record.Slug)
	}
	digest, err := sourceDigest(source)
	if err != nil {
		t.Fatalf("sourceDigest() error = %v", err)
	}
	if record.SourceDigest != digest {
		t.Fatalf("record digest = %q, want %q", record.SourceDigest, digest)
	}
	if record.ID != identity.ConversionUUID(digest) {
		t.Fatalf("record id = %s not derived from digest", record.ID)
	}
	if record.Markdown != result.Markdown {
		t.Fatalf("record markdown %q != result markdown %q", record.Markdown, result.Markdown)
	}
	if !record.WrapVariables {
		t.Fatal("expected default wrap setting recorded")
	}
}

func TestServiceConvertAndArchiveWithoutStore(t *testing.T) {
	svc := New()

	_, err := svc.ConvertAndArchive(context.Background(), "terms", variableSource(), interfaces.ConvertOptions{})
	if !errors.Is(err, store.ErrStoreDisabled) {
		t.Fatalf("expected ErrStoreDisabled, got %v", err)
	}
}

func TestServiceDigestIsStable(t *testing.T) {
	first, err := sourceDigest(clauseDocumentSource())
	if err != nil {
		t.Fatalf("sourceDigest() error = %v", err)
	}
	second, err := sourceDigest(clauseDocumentSource())
	if err != nil {
		t.Fatalf("sourceDigest() error = %v", err)
	}
	if first != second {
		t.Fatalf("digest not stable: %q vs %q", first, second)
	}
}

func TestServiceIngestMarkdownWithFrontMatter(t *testing.T) {
	svc := New()

	doc, meta, err := svc.IngestMarkdown([]byte("---\ntitle: Terms\nslug: payment-terms\n---\nPayment is due.\n"))
	if err != nil {
		t.Fatalf("IngestMarkdown() error = %v", err)
	}
	if meta.Slug != "payment-terms" || meta.Title != "Terms" {
		t.Fatalf("metadata = %+v", meta)
	}

	canonical, err := svc.CanonicalForm(doc)
	if err != nil {
		t.Fatalf("CanonicalForm() error = %v", err)
	}
	if canonical["$class"] != dom.KindDocument {
		t.Fatalf("canonical class = %v", canonical["$class"])
	}
}

func TestServiceConvertMarkdown(t *testing.T) {
	svc := New()

	result, meta, err := svc.ConvertMarkdown(context.Background(), []byte("---\nslug: payment-terms\n---\n# Terms\n\nPayment is due.\n"), interfaces.ConvertOptions{})
	if err != nil {
		t.Fatalf("ConvertMarkdown() error = %v", err)
	}
	if meta.Slug != "payment-terms" {
		t.Fatalf("metadata slug = %q", meta.Slug)
	}
	if result.Converted["$class"] != dom.KindDocument {
		t.Fatalf("converted class = %v", result.Converted["$class"])
	}
	if result.Markdown != "# Terms\n\nPayment is due." {
		t.Fatalf("Markdown = %q", result.Markdown)
	}
}

func TestServiceParseMarkdownRoundTrip(t *testing.T) {
	svc := New()

	doc, err := svc.ParseMarkdown([]byte("# Terms\n\nPayment is due.\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}

	out, err := svc.RenderMarkdown(doc)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(out, "# Terms") || !strings.Contains(out, "Payment is due.") {
		t.Fatalf("RenderMarkdown() = %q", out)
	}
}
