package catalog

// FilterOptions derives the selectable values for every filterable column.
//
// For the column at position i in the chain, the candidate records are those
// matching the selections at positions 0..i-1 only; deeper selections and
// the search term do not narrow the list. This yields the cascading
// dropdowns: picking a textbook narrows the unit options, while the unit
// selection itself never shrinks its own option list.
//
// Each list holds the distinct non-empty values, collation-sorted.
func (d *Definition) FilterOptions(ds Dataset, q Query) map[string][]string {
	options := make(map[string][]string, len(d.FilterColumns))
	c := newCollator()

	for i, col := range d.FilterColumns {
		upstream := d.FilterColumns[:i]

		seen := make(map[string]bool)
		var values []string
		for _, rec := range ds {
			if !matchColumns(rec, q, upstream) {
				continue
			}
			val := rec[col]
			if val == "" || seen[val] {
				continue
			}
			seen[val] = true
			values = append(values, val)
		}

		c.SortStrings(values)
		options[col] = values
	}

	return options
}

func matchColumns(rec Record, q Query, columns []string) bool {
	for _, col := range columns {
		if want := q.Filter(col); want != "" && rec[col] != want {
			return false
		}
	}
	return true
}
