// Package catalog holds the domain model and derivation pipeline for the
// literature-textbook index: the dataset shape, the filter/search/sort rules,
// pagination, and the view state that ties them together.
//
// Everything in this package is pure computation over an immutable dataset
// snapshot. No package here performs I/O; fetching lives in internal/fetch
// and serving lives in internal/web.
package catalog

import (
	"time"

	"github.com/seongho-jang/munhakdex/internal/csv"
)

// Record is one row of the index, keyed by column name.
type Record = csv.Record

// Dataset is an ordered sequence of records built from one fetch cycle.
// A dataset is never mutated after construction; refreshes replace the whole
// snapshot.
type Dataset []Record

// SortMode selects the result ordering.
type SortMode string

const (
	// SortByTitle orders by the primary display column (the work title).
	SortByTitle SortMode = "title"

	// SortBySource orders by the source chain: textbook, then major unit,
	// then minor unit, stopping at the first non-zero comparison.
	SortBySource SortMode = "source"
)

// Valid reports whether m is a recognized sort mode.
func (m SortMode) Valid() bool {
	return m == SortByTitle || m == SortBySource
}

// CascadePolicy controls what happens to downstream filter selections when
// an upstream filter in the hierarchy chain changes.
type CascadePolicy int

const (
	// CascadeClear invalidates selections below the changed level.
	CascadeClear CascadePolicy = iota

	// CascadeIndependent leaves other selections untouched.
	CascadeIndependent
)

// Query is the full derivation input: active filter selections, the search
// term, and the sort mode. The zero value means "no filters, no search,
// default ordering".
type Query struct {
	// Filters maps a filterable column name to the selected value. A missing
	// key means no filter on that column. Matching is exact and
	// case-sensitive.
	Filters map[string]string

	// Search is matched case-insensitively as a substring against the
	// searchable column. Empty passes every record.
	Search string

	// Sort selects the ordering; the zero value falls back to SortByTitle.
	Sort SortMode
}

// Filter returns the active selection for a column, or "" if unfiltered.
func (q Query) Filter(column string) string {
	return q.Filters[column]
}

// WithFilter returns a copy of q with the given column selection applied
// (or removed, when value is empty). Under CascadeClear the selections for
// columns after the changed one in the definition chain are dropped.
func (q Query) WithFilter(def *Definition, policy CascadePolicy, column, value string) Query {
	out := q
	out.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		out.Filters[k] = v
	}

	if value == "" {
		delete(out.Filters, column)
	} else {
		out.Filters[column] = value
	}

	if policy == CascadeClear {
		clearing := false
		for _, col := range def.FilterColumns {
			if clearing {
				delete(out.Filters, col)
			}
			if col == column {
				clearing = true
			}
		}
	}

	return out
}

// Snapshot is one published dataset state, produced by the refresher and
// consumed read-only by the pipeline and the web layer.
type Snapshot struct {
	// Dataset is the current records. It stays populated across failed
	// background refreshes so stale data keeps rendering under the error.
	Dataset Dataset

	// Loading is true only before the first fetch result arrives.
	Loading bool

	// Err is a human-readable message for the most recent failed fetch,
	// empty after a success.
	Err string

	// LastUpdated is when the most recent fetch (success or failure)
	// finished.
	LastUpdated time.Time

	// Seq is the fetch cycle that produced this snapshot. Responses from
	// older cycles are never published over newer ones.
	Seq uint64
}
