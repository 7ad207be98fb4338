package dom

// Attribute is a single name/value pair on a synthetic tag. Values are stored
// unescaped; percent-decoding on reverse-parse is the caller's responsibility.
type Attribute struct {
	Name  string
	Value string
}

// TagInfo describes a synthetic HTML-like tag attached to a converted node.
// AttributeString preserves the exact serialized `name="value"` text in
// per-kind order; Content holds the inner literal text and is empty when the
// tag is self-closing (Closed true).
type TagInfo struct {
	TagName         string
	AttributeString string
	Content         string
	Closed          bool
	Attributes      []Attribute
}

// EncodeTag serializes a tag descriptor into its canonical map form.
func EncodeTag(tag *TagInfo) map[string]any {
	if tag == nil {
		return nil
	}
	attributes := make([]any, 0, len(tag.Attributes))
	for _, attr := range tag.Attributes {
		attributes = append(attributes, map[string]any{
			"name":  attr.Name,
			"value": attr.Value,
		})
	}
	return map[string]any{
		"tagName":         tag.TagName,
		"attributeString": tag.AttributeString,
		"content":         tag.Content,
		"closed":          tag.Closed,
		"attributes":      attributes,
	}
}

// DecodeTag rebuilds a tag descriptor from its canonical map form.
func DecodeTag(value map[string]any) *TagInfo {
	if value == nil {
		return nil
	}
	tag := &TagInfo{
		TagName:         stringField(value, "tagName"),
		AttributeString: stringField(value, "attributeString"),
		Content:         stringField(value, "content"),
		Closed:          boolField(value, "closed"),
	}
	if raw, ok := value["attributes"].([]any); ok {
		tag.Attributes = make([]Attribute, 0, len(raw))
		for _, entry := range raw {
			attr, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			tag.Attributes = append(tag.Attributes, Attribute{
				Name:  stringField(attr, "name"),
				Value: stringField(attr, "value"),
			})
		}
	}
	return tag
}
