package csv

import "strings"

// Record maps a column name to the cleaned cell value of one data row.
// Every record produced by ParseDocument carries exactly the header's key
// set; a short row defaults its missing trailing fields to "".
type Record map[string]string

// ParseDocument parses a whole feed body: the first line is the header, each
// following line becomes a Record. Rows whose values are all empty or
// whitespace-only after cleaning are dropped.
//
// Line endings may be LF or CRLF and a leading UTF-8 BOM is ignored; both
// show up routinely in sheets saved on Windows.
func ParseDocument(body string) (header []string, records []Record) {
	body = strings.TrimPrefix(body, "\uFEFF")

	lines := strings.Split(body, "\n")
	if len(lines) == 0 {
		return nil, nil
	}

	rawHeader := ParseLine(strings.TrimSuffix(lines[0], "\r"))
	header = make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = CleanHeader(h)
	}

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := ParseLine(line)
		rec := make(Record, len(header))
		empty := true
		for i, name := range header {
			var val string
			if i < len(fields) {
				val = CleanCell(fields[i])
			}
			rec[name] = val
			if val != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, rec)
	}

	return header, records
}

// LineCount reports the number of non-empty lines in a feed body. The
// fetcher uses it to distinguish an empty sheet (header only, or nothing)
// from a sheet with data rows before committing to a full parse.
func LineCount(body string) int {
	body = strings.TrimPrefix(body, "\uFEFF")
	n := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(strings.TrimSuffix(line, "\r")) != "" {
			n++
		}
	}
	return n
}
