package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// newCollator builds a Korean-locale collator. Collators carry internal
// scratch buffers and are not safe for concurrent use, so each derivation
// builds its own instead of sharing one across requests.
func newCollator() *collate.Collator {
	return collate.New(language.Korean)
}

// Results derives the ordered result sequence for a query: filters first,
// then search, then a locale-aware stable sort. The input dataset is never
// modified.
func (d *Definition) Results(ds Dataset, q Query) []Record {
	out := make([]Record, 0, len(ds))

	search := strings.ToLower(norm.NFC.String(strings.TrimSpace(q.Search)))

	for _, rec := range ds {
		if !d.matchFilters(rec, q) {
			continue
		}
		if search != "" {
			val := strings.ToLower(norm.NFC.String(rec[d.SearchColumn]))
			if !strings.Contains(val, search) {
				continue
			}
		}
		out = append(out, rec)
	}

	d.sortRecords(out, q.Sort)
	return out
}

// matchFilters applies the hierarchy chain in its fixed order; every active
// selection must match exactly.
func (d *Definition) matchFilters(rec Record, q Query) bool {
	for _, col := range d.FilterColumns {
		want := q.Filter(col)
		if want != "" && rec[col] != want {
			return false
		}
	}
	return true
}

// sortRecords orders records in place. SortByTitle compares the primary
// display column; SortBySource walks the tie-break chain until a comparison
// differs. Fully-equal keys keep their input order.
func (d *Definition) sortRecords(records []Record, mode SortMode) {
	c := newCollator()

	var keys []string
	switch mode {
	case SortBySource:
		keys = d.SourceChain
	default:
		keys = []string{d.TitleColumn()}
	}

	sort.SliceStable(records, func(i, j int) bool {
		for _, key := range keys {
			if cmp := c.CompareString(records[i][key], records[j][key]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}
