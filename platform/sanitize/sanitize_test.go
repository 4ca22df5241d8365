package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "replaced battery", "replaced battery"},
		{"tags", "<b>cracked</b> screen", "cracked screen"},
		{"encoded tags", "&lt;script&gt;alert(1)&lt;/script&gt;ok", "alert(1)ok"},
		{"entities", "fish &amp; chips", "fish & chips"},
		{"whitespace", "  two   spaces\x00 here  ", "two spaces here"},
		{"newlines kept", "line one\nline two", "line one\nline two"},
		{"markup only", "<br/>", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.input); got != tc.want {
				t.Errorf("Text(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
	in := "<i>note</i>"
	if got := TextPtr(&in); got == nil || *got != "note" {
		t.Fatalf("unexpected result %v", got)
	}
}
