package templatemark_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	templatemark "github.com/goliatone/go-templatemark"
)

func newTestConfig() templatemark.Config {
	cfg := templatemark.DefaultConfig()
	cfg.Logging.Provider = "noop"
	return cfg
}

func variableSource() map[string]any {
	return map[string]any{
		"$class": "org.templatemark.Variable",
		"id":     "amount",
		"value":  "100 EUR",
	}
}

func TestModuleConvert(t *testing.T) {
	module, err := templatemark.New(newTestConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := module.Conversion().Convert(context.Background(), variableSource(), templatemark.ConvertOptions{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := `<variable id="amount" value="100%20EUR"/>`
	if result.Markdown != want {
		t.Fatalf("Markdown = %q, want %q", result.Markdown, want)
	}
}

func TestModuleRejectsInvalidConfig(t *testing.T) {
	cfg := newTestConfig()
	cfg.Logging.Provider = "syslog"
	if _, err := templatemark.New(cfg); !errors.Is(err, templatemark.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestModuleStorageRequiresDatabase(t *testing.T) {
	cfg := newTestConfig()
	cfg.Storage.Enabled = true
	cfg.Storage.DSN = "file:archive.db"
	if _, err := templatemark.New(cfg); !errors.Is(err, templatemark.ErrStorageDatabaseRequired) {
		t.Fatalf("expected ErrStorageDatabaseRequired, got %v", err)
	}
}

func TestModuleArchiveDisabledWithoutStorage(t *testing.T) {
	module, err := templatemark.New(newTestConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if module.Archive() != nil {
		t.Fatal("expected nil archive when storage is disabled")
	}

	_, err = module.Conversion().ConvertAndArchive(context.Background(), "terms", variableSource(), templatemark.ConvertOptions{})
	if !errors.Is(err, templatemark.ErrStoreDisabled) {
		t.Fatalf("expected ErrStoreDisabled, got %v", err)
	}
}

func TestModuleConvertAndArchive(t *testing.T) {
	sqldb, err := sql.Open("sqlite3", "file:module_test?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	cfg := newTestConfig()
	cfg.Storage.Enabled = true
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file:module_test?mode=memory"

	module, err := templatemark.New(cfg, templatemark.WithDatabase(sqldb))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if _, err := module.Conversion().ConvertAndArchive(ctx, "Payment Terms", variableSource(), templatemark.ConvertOptions{}); err != nil {
		t.Fatalf("ConvertAndArchive() error = %v", err)
	}

	record, err := module.Archive().GetBySlug(ctx, "payment-terms")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if record.Source["$class"] != "org.templatemark.Variable" {
		t.Fatalf("archived source = %+v", record.Source)
	}
}

func TestModuleConvertCommand(t *testing.T) {
	module, err := templatemark.New(newTestConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var delivered *templatemark.ConversionResult
	handler := module.ConvertCommand(func(result *templatemark.ConversionResult) {
		delivered = result
	})

	cmd := templatemark.ConvertDocumentCommand{Source: variableSource()}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if delivered == nil || delivered.Markdown == "" {
		t.Fatalf("expected sink to receive result, got %+v", delivered)
	}
}

func TestModuleMarkdownRoundTrip(t *testing.T) {
	module, err := templatemark.New(newTestConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc, err := module.ParseMarkdown([]byte("Payment is due.\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}
	out, err := module.RenderMarkdown(doc)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if out != "Payment is due." {
		t.Fatalf("RenderMarkdown() = %q", out)
	}
}
