package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"<script>alert(1)</script>Water outage", "Water outage"},
		{"<b>Gate</b> closes at 10 & opens at 6", "Gate closes at 10 & opens at 6"},
		{"line one\nline two", "line one\nline two"},
		{"<img src=x onerror=alert(1)>", ""},
		{"&lt;script&gt;alert(1)&lt;/script&gt; hi", "hi"},
		{"dues &lt; 500", "dues < 500"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextNeverReturnsEncodedMarkup(t *testing.T) {
	inputs := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;",
		"&amp;amp;lt;b&amp;amp;gt;bold",
		"&#60;iframe src=evil&#62;&#60;/iframe&#62;",
	}
	for _, in := range inputs {
		got := Text(in)
		for _, tag := range []string{"<script", "<img", "<b>", "<iframe"} {
			if strings.Contains(got, tag) {
				t.Errorf("Text(%q) = %q, contains %q", in, got, tag)
			}
		}
	}
}

func TestLine(t *testing.T) {
	if got := Line("  Broken\n street   light "); got != "Broken street light" {
		t.Errorf("Line() = %q", got)
	}
}
