// Package csv parses the published-sheet feed format: RFC-4180-like lines
// where quoted fields may contain commas and doubled quotes, but never
// embedded newlines.
//
// The parser is deliberately hand-rolled instead of using encoding/csv:
// published sheet feeds are frequently ragged (short rows, stray quotes,
// unterminated quoting) and encoding/csv rejects exactly the inputs this
// package must degrade gracefully on. Nothing here ever returns an error;
// malformed quoting folds the remaining text into the current field.
package csv

import "strings"

// ParseLine splits one feed line into its field values.
//
// Scanning rules:
//   - A double quote toggles the in-quotes state and is not emitted.
//   - A doubled quote inside a quoted field emits one literal quote and
//     advances past both characters.
//   - A comma separates fields only outside quotes; inside quotes it is
//     literal.
//   - End of line always terminates a final field, so a line with N commas
//     outside quotes yields N+1 fields.
//
// An unterminated quote is not an error: the rest of the line simply belongs
// to the current field.
func ParseLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				// Escaped quote: emit one literal " and skip the pair.
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}

	return append(fields, cur.String())
}
