package render

import "strings"

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	// attrEscaper also encodes whitespace that could break attribute parsing.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes text for inclusion in element content.
func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// escapeAttr escapes text for inclusion in a double-quoted attribute value.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
