package convertcmd

import "testing"

func validSource() map[string]any {
	return map[string]any{
		"$class": "org.templatemark.Variable",
		"id":     "amount",
		"value":  "100",
	}
}

func TestConvertDocumentCommandValidate(t *testing.T) {
	cmd := ConvertDocumentCommand{Source: validSource()}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
}

func TestConvertDocumentCommandRequiresSource(t *testing.T) {
	cmd := ConvertDocumentCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected missing source to fail validation")
	}
}

func TestConvertDocumentCommandArchiveRequiresSlug(t *testing.T) {
	cmd := ConvertDocumentCommand{Source: validSource(), Archive: true}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected archive without slug to fail validation")
	}

	cmd.Slug = "payment-terms"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("expected archive with slug to validate, got %v", err)
	}
}
