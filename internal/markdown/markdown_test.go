package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty input", "", ""},
		{"plain text", "hello world", "hello world"},
		{"escapes html", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"h3 heading", "### Totals", "<h3>Totals</h3>"},
		{"h2 heading", "## Summary", "<h2>Summary</h2>"},
		{"bold", "you spent **$42** today", "you spent <b>$42</b> today"},
		{"italic", "see *chart.png* below", "see <i>chart.png</i> below"},
		{"horizontal rule", "above\n---\nbelow", "above\n<hr>\nbelow"},
		{"double newline becomes br", "first\n\nsecond", "first<br>second"},
		{"crlf normalized", "first\r\n\r\nsecond", "first<br>second"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ToHTML(tc.input)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestToHTMLListWrapping(t *testing.T) {
	input := "Spending:\n- Rent: $950\n- Groceries: $245"
	result := ToHTML(input)

	if strings.Count(result, "<ul>") != 1 {
		t.Errorf("Expected exactly one <ul>, got %q", result)
	}
	if strings.Count(result, "<li>") != 2 {
		t.Errorf("Expected two <li> items, got %q", result)
	}
	if !strings.Contains(result, "<li>Rent: $950</li>") {
		t.Errorf("Missing first list item in %q", result)
	}
}

func TestToHTMLSeparateListRuns(t *testing.T) {
	input := "- one\n- two\n\nbreak text here\n\nmore:\n- three"
	result := ToHTML(input)

	// Runs separated by prose each get their own <ul>.
	if strings.Count(result, "<ul>") != 2 {
		t.Errorf("Expected two <ul> blocks, got %q", result)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"chart.png", "chart.png"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"my chart (1).png", "my_chart__1_.png"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := SafeFilename(tc.input); got != tc.expected {
			t.Errorf("SafeFilename(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestExtractImageFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "chart saved as spending_chart.png", "spending_chart.png"},
		{"asterisk wrapped", "saved *spending_chart.png* for you", "spending_chart.png"},
		{"inside html", "<b>done</b> spending_chart.png", "spending_chart.png"},
		{"no image", "no charts here", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractImageFilename(tc.input); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
