package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// Metadata is the structured frontmatter carried by an ingested document.
type Metadata struct {
	Title  string         `yaml:"title"`
	Slug   string         `yaml:"slug"`
	Author string         `yaml:"author"`
	Tags   []string       `yaml:"tags"`
	Date   time.Time      `yaml:"date"`
	Draft  bool           `yaml:"draft"`
	Custom map[string]any `yaml:",inline"`
}

// ParseFrontMatter extracts metadata and the markdown body from source. The
// returned body has the frontmatter delimiters stripped; sources without
// frontmatter pass through unchanged.
func ParseFrontMatter(source []byte) (Metadata, []byte, error) {
	var meta Metadata
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, body, nil
}
