// Package markdown renders the small markdown subset the bot emits into HTML.
// Input is escaped before any substitution, so the output is safe to embed.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	reH3       = regexp.MustCompile(`(?m)^\s*### (.*)$`)
	reH2       = regexp.MustCompile(`(?m)^\s*## (.*)$`)
	reHR       = regexp.MustCompile(`(?m)(?:^|\n)-{3,}(?:\n|$)`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic   = regexp.MustCompile(`\*(.+?)\*`)
	reListItem = regexp.MustCompile(`(?m)^\s*-\s+(.*\S.*)$`)
	reListRun  = regexp.MustCompile(`(?s)(?:^|\n)(?:<li>.*?</li>\n?)+`)
	reBreaks   = regexp.MustCompile(`\n{2,}`)

	reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
	reTags   = regexp.MustCompile(`<[^>]+>`)
	rePNG    = regexp.MustCompile(`\*?([A-Za-z0-9_\-]+\.png)\*?`)
)

// ToHTML converts the bot's markdown subset to HTML. Headings, horizontal
// rules, bold/italic, dashed list items (wrapped into a single <ul> per run)
// and blank-line breaks are supported; everything else passes through escaped.
func ToHTML(text string) string {
	if text == "" {
		return ""
	}
	text = html.EscapeString(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = reH3.ReplaceAllString(text, "<h3>$1</h3>")
	text = reH2.ReplaceAllString(text, "<h2>$1</h2>")
	text = reHR.ReplaceAllString(text, "\n<hr>\n")
	text = reBold.ReplaceAllString(text, "<b>$1</b>")
	text = reItalic.ReplaceAllString(text, "<i>$1</i>")
	text = reListItem.ReplaceAllString(text, "<li>$1</li>")
	text = reListRun.ReplaceAllStringFunc(text, func(run string) string {
		return "<ul>" + run + "</ul>"
	})
	text = reBreaks.ReplaceAllString(text, "<br>")
	return text
}

// SafeFilename replaces every byte outside [A-Za-z0-9_.-] with an underscore.
func SafeFilename(name string) string {
	return reUnsafe.ReplaceAllString(name, "_")
}

// ExtractImageFilename finds the first .png filename mentioned in a rendered
// response, ignoring HTML tags. Returns "" when none is present.
func ExtractImageFilename(text string) string {
	if text == "" {
		return ""
	}
	raw := reTags.ReplaceAllString(text, " ")
	m := rePNG.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return SafeFilename(m[1])
}
