package generate

import "testing"

func TestSanitizeMarkedKeepsAllowedSubset(t *testing.T) {
	in := `<ul><li>First</li><li onclick="x()">Second</li></ul><script>evil()</script>`
	got := SanitizeMarked(in)
	if got != "<ul><li>First</li><li>Second</li></ul>" {
		t.Fatalf("unexpected sanitized output: %q", got)
	}
}

func TestStripMarkupRemovesEverything(t *testing.T) {
	got := StripMarkup("<p>Revenue <strong>doubled</strong> &amp; margins held</p>")
	if got != "Revenue doubled & margins held" {
		t.Fatalf("unexpected stripped output: %q", got)
	}
}

func TestPlainProjectionSplitsBlocks(t *testing.T) {
	got := PlainProjection("<ul><li>one</li><li>two</li></ul><p>closing</p>")
	if got != "one\ntwo\nclosing" {
		t.Fatalf("unexpected projection: %q", got)
	}
}

func TestLooksMarked(t *testing.T) {
	cases := map[string]bool{
		"<ul><li>a</li></ul>":    true,
		"- item one\n- item two": true,
		"plain sentence":         false,
		"3 - 4 = -1":             false,
	}
	for in, want := range cases {
		if got := LooksMarked(in); got != want {
			t.Fatalf("LooksMarked(%q) = %v, want %v", in, got, want)
		}
	}
}
