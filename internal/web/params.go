package web

// params.go contains shared request-parsing helpers used across handlers.

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/seongho-jang/munhakdex/internal/catalog"
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// viewFromRequest reconstructs the view state carried in the query string.
//
// Filters are applied in hierarchy order before search, sort, and page, so
// a request naming only a downstream filter under the cascade-clear policy
// keeps that selection (cascading clears selections below a CHANGED level;
// a fresh view changes every named level exactly once, top-down). Page is
// applied last since every other setter resets it.
func viewFromRequest(r *http.Request, def *catalog.Definition, policy catalog.CascadePolicy, pageSize int) *catalog.ViewState {
	vs := catalog.NewViewState(def, policy, pageSize)
	q := r.URL.Query()

	for _, col := range def.FilterColumns {
		if val := q.Get("filter[" + col + "]"); val != "" {
			vs.SetFilter(col, val)
		}
	}

	if search := q.Get("search"); search != "" {
		vs.SetSearch(strings.TrimSpace(search))
	}

	if sort := q.Get("sort"); sort != "" {
		vs.SetSort(catalog.SortMode(sort))
	}

	vs.SetPage(parseIntParam(r, "page", 1))
	return vs
}
