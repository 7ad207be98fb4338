package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-templatemark/internal/identity"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:store_test?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db, err := NewDB(sqldb, DriverSQLite)
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return db
}

func sampleRecord(digest string) *ConversionRecord {
	return &ConversionRecord{
		ID:           identity.ConversionUUID(digest),
		Slug:         "payment-terms",
		SourceDigest: digest,
		Source:       map[string]any{"$class": "org.templatemark.Clause"},
		Converted:    map[string]any{"$class": "org.commonmark.CodeBlock"},
		Markdown:     "converted body\n",
	}
}

func TestBunConversionStore_SaveAndFetch(t *testing.T) {
	db := newTestDB(t)
	archive := NewBunConversionStore(db)
	ctx := context.Background()

	record := sampleRecord("digest-1")
	saved, err := archive.Save(ctx, record)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatalf("Save() timestamps not set: %+v", saved)
	}

	fetched, err := archive.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fetched.Slug != "payment-terms" || fetched.Markdown != "converted body\n" {
		t.Fatalf("GetByID() = %+v", fetched)
	}

	bySlug, err := archive.GetBySlug(ctx, "payment-terms")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if bySlug.ID != record.ID {
		t.Fatalf("GetBySlug() id = %s, want %s", bySlug.ID, record.ID)
	}
}

func TestBunConversionStore_SaveUpdatesExisting(t *testing.T) {
	db := newTestDB(t)
	archive := NewBunConversionStore(db)
	ctx := context.Background()

	first := sampleRecord("digest-2")
	if _, err := archive.Save(ctx, first); err != nil {
		t.Fatalf("Save() first error = %v", err)
	}

	second := sampleRecord("digest-2")
	second.Markdown = "updated body\n"
	updated, err := archive.Save(ctx, second)
	if err != nil {
		t.Fatalf("Save() second error = %v", err)
	}
	if updated.Markdown != "updated body\n" {
		t.Fatalf("Save() did not update markdown: %q", updated.Markdown)
	}

	records, err := archive.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	matches := 0
	for _, record := range records {
		if record.SourceDigest == "digest-2" {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("List() found %d records for digest-2, want 1", matches)
	}
}

func TestBunConversionStore_GetMissing(t *testing.T) {
	db := newTestDB(t)
	archive := NewBunConversionStore(db)

	_, err := archive.GetByID(context.Background(), identity.ConversionUUID("missing"))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("GetByID() error = %v, want NotFoundError", err)
	}
}

func TestBunConversionStore_Delete(t *testing.T) {
	db := newTestDB(t)
	archive := NewBunConversionStore(db)
	ctx := context.Background()

	record := sampleRecord("digest-3")
	if _, err := archive.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := archive.Delete(ctx, record.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := archive.GetByID(ctx, record.ID); err == nil {
		t.Fatalf("GetByID() expected error after delete")
	}
}
