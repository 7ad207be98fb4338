package dom

import (
	"encoding/json"
	"testing"
)

func TestEncode_ClauseCarriesClassAndChildren(t *testing.T) {
	clause := &Clause{
		Src:      "template://greeting",
		ClauseID: "clause-1",
		Nodes: []Node{
			&Paragraph{Nodes: []Node{&Text{Text: "Hello"}}},
		},
	}

	form := Encode(clause)
	if form["$class"] != KindClause {
		t.Fatalf("Encode() $class = %v, want %s", form["$class"], KindClause)
	}
	if form["src"] != "template://greeting" || form["clauseid"] != "clause-1" {
		t.Fatalf("Encode() clause fields = %v", form)
	}
	nodes, ok := form["nodes"].([]any)
	if !ok || len(nodes) != 1 {
		t.Fatalf("Encode() nodes = %v", form["nodes"])
	}
}

func TestDecode_RoundTripThroughJSON(t *testing.T) {
	doc := &Document{
		Xmlns: DocumentNamespace,
		Nodes: []Node{
			&Heading{Level: 2, Nodes: []Node{&Text{Text: "Terms"}}},
			&List{
				Type:      ListTypeOrdered,
				Start:     3,
				Tight:     true,
				Delimiter: DelimiterPeriod,
				Nodes: []Node{
					&Item{Nodes: []Node{&Paragraph{Nodes: []Node{&Text{Text: "first"}}}}},
				},
			},
		},
	}

	encoded, err := json.Marshal(Encode(doc))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var form map[string]any
	if err := json.Unmarshal(encoded, &form); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	decoded, err := Decode(form)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got, ok := decoded.(*Document)
	if !ok {
		t.Fatalf("Decode() returned %T, want *Document", decoded)
	}
	if got.Xmlns != DocumentNamespace {
		t.Fatalf("Decode() xmlns = %q", got.Xmlns)
	}
	heading, ok := got.Nodes[0].(*Heading)
	if !ok || heading.Level != 2 {
		t.Fatalf("Decode() first child = %#v", got.Nodes[0])
	}
	list, ok := got.Nodes[1].(*List)
	if !ok {
		t.Fatalf("Decode() second child = %#v", got.Nodes[1])
	}
	if list.Start != 3 || !list.Tight || list.Delimiter != DelimiterPeriod {
		t.Fatalf("Decode() list = %#v", list)
	}
}

func TestDecode_UnknownClass(t *testing.T) {
	_, err := Decode(map[string]any{"$class": "org.commonmark.Table"})
	if err == nil {
		t.Fatalf("Decode() expected error for unknown class")
	}
}

func TestEncodeTag_RoundTrip(t *testing.T) {
	tag := &TagInfo{
		TagName:         "variable",
		AttributeString: `id="x" value="a%20b"`,
		Closed:          true,
		Attributes: []Attribute{
			{Name: "id", Value: "x"},
			{Name: "value", Value: "a b"},
		},
	}

	decoded := DecodeTag(EncodeTag(tag))
	if decoded.TagName != tag.TagName || decoded.AttributeString != tag.AttributeString {
		t.Fatalf("DecodeTag() = %#v", decoded)
	}
	if !decoded.Closed || decoded.Content != "" {
		t.Fatalf("DecodeTag() closed/content = %v %q", decoded.Closed, decoded.Content)
	}
	if len(decoded.Attributes) != 2 || decoded.Attributes[1].Value != "a b" {
		t.Fatalf("DecodeTag() attributes = %#v", decoded.Attributes)
	}
}
