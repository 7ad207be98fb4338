package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	templatemark "github.com/goliatone/go-templatemark"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("templatemark: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("templatemark", flag.ExitOnError)
	input := fs.String("input", "-", "Path to the input document, or - for stdin")
	from := fs.String("from", "json", "Input format: json (annotated tree) or markdown")
	output := fs.String("output", "markdown", "Output format: markdown, json, or both")
	wrap := fs.Bool("wrap", true, "Keep converted variables inside their tag wrapper")
	archive := fs.Bool("archive", false, "Persist the conversion run to the archive")
	slug := fs.String("slug", "", "Document slug recorded when archiving")
	dsn := fs.String("dsn", "file:templatemark.db?_fk=1", "SQLite DSN backing the archive")
	logLevel := fs.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Log format (json, console, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	payload, err := readInput(*input, stdin)
	if err != nil {
		return err
	}

	cfg := templatemark.DefaultConfig()
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = *logFormat
	cfg.Conversion.WrapVariables = *wrap

	var opts []templatemark.Option
	if *archive {
		cfg.Storage.Enabled = true
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.DSN = *dsn

		sqldb, err := sql.Open("sqlite3", *dsn)
		if err != nil {
			return fmt.Errorf("open archive database: %w", err)
		}
		defer sqldb.Close()
		opts = append(opts, templatemark.WithDatabase(sqldb))
	}

	module, err := templatemark.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()

	source, docSlug, err := buildSource(module, *from, payload)
	if err != nil {
		return err
	}
	if *slug == "" {
		*slug = docSlug
	}

	var result *templatemark.ConversionResult
	handler := module.ConvertCommand(func(r *templatemark.ConversionResult) {
		result = r
	})
	cmd := templatemark.ConvertDocumentCommand{
		Source:  source,
		Slug:    *slug,
		Archive: *archive,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute convert command: %w", err)
	}
	if result == nil {
		return fmt.Errorf("conversion produced no result")
	}

	return writeResult(stdout, *output, result)
}

func readInput(input string, stdin io.Reader) ([]byte, error) {
	var payload []byte
	var err error
	if input == "-" {
		payload, err = io.ReadAll(stdin)
	} else {
		payload, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return payload, nil
}

// buildSource produces the canonical source tree for conversion. Markdown
// input is ingested through the node model first; its frontmatter slug is
// returned so archiving can pick it up when no -slug flag is set.
func buildSource(module *templatemark.Module, from string, payload []byte) (map[string]any, string, error) {
	switch strings.ToLower(strings.TrimSpace(from)) {
	case "json":
		source := map[string]any{}
		if err := json.Unmarshal(payload, &source); err != nil {
			return nil, "", fmt.Errorf("parse input tree: %w", err)
		}
		return source, "", nil
	case "markdown":
		doc, meta, err := module.IngestMarkdown(payload)
		if err != nil {
			return nil, "", fmt.Errorf("ingest markdown: %w", err)
		}
		source, err := module.CanonicalForm(doc)
		if err != nil {
			return nil, "", fmt.Errorf("encode ingested tree: %w", err)
		}
		return source, meta.Slug, nil
	default:
		return nil, "", fmt.Errorf("unknown input format %q", from)
	}
}

func writeResult(out io.Writer, format string, result *templatemark.ConversionResult) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown":
		fmt.Fprintln(out, result.Markdown)
	case "json":
		return writeJSON(out, result.Converted)
	case "both":
		if err := writeJSON(out, result.Converted); err != nil {
			return err
		}
		fmt.Fprintln(out, result.Markdown)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

func writeJSON(out io.Writer, converted map[string]any) error {
	payload, err := json.MarshalIndent(converted, "", "  ")
	if err != nil {
		return fmt.Errorf("encode converted tree: %w", err)
	}
	fmt.Fprintln(out, string(payload))
	return nil
}
