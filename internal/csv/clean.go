package csv

import "strings"

// CleanHeader normalizes a header cell: whitespace is trimmed and one layer
// of surrounding double quotes is removed. Sheets exported from spreadsheet
// tools sometimes re-quote header cells even after field splitting.
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// CleanCell normalizes a data cell: trim, strip one layer of surrounding
// double quotes, then unescape doubled quotes. Fields produced by ParseLine
// are usually already unquoted, so this is a no-op for them; it matters for
// cells that arrive pre-quoted from other feed variants.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}
