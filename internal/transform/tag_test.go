package transform

import "testing"

func TestPercentEncode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a b", "a%20b"},
		{"1+1", "1%2B1"},
		{"A-Z_0.9!~*'()", "A-Z_0.9!~*'()"},
		{`say "hi"`, "say%20%22hi%22"},
		{"50%", "50%25"},
		{"é", "%C3%A9"},
	}

	for _, tc := range cases {
		if got := percentEncode(tc.in); got != tc.want {
			t.Fatalf("percentEncode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSelfClosingTag(t *testing.T) {
	if got := selfClosingTag("list", ""); got != "<list/>" {
		t.Fatalf("selfClosingTag() = %q", got)
	}
	if got := selfClosingTag("variable", `id="x"`); got != `<variable id="x"/>` {
		t.Fatalf("selfClosingTag() = %q", got)
	}
}

func TestAttributeHelpers(t *testing.T) {
	got := joinAttributes(attribute("id", "x"), encodedAttribute("value", "a b"))
	want := `id="x" value="a%20b"`
	if got != want {
		t.Fatalf("joinAttributes() = %q, want %q", got, want)
	}
}
