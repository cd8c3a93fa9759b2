package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/seongho-jang/munhakdex/internal/catalog"
)

// WorksResponse is one visible page of the derived index.
type WorksResponse struct {
	Records    []catalog.Record  `json:"records"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalRows  int               `json:"total_rows"`
	TotalPages int               `json:"total_pages"`
	Sort       string            `json:"sort"`
	Search     string            `json:"search"`
	Filters    map[string]string `json:"filters"`
}

// FilterColumnResponse lists the selectable values for one filter column.
type FilterColumnResponse struct {
	Column   string   `json:"column"`
	Label    string   `json:"label"`
	Values   []string `json:"values"`
	Selected string   `json:"selected,omitempty"`
}

// StatusResponse reports feed freshness for the polling UI.
type StatusResponse struct {
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	TotalRows   int    `json:"total_rows"`
	Seq         uint64 `json:"seq"`
}

// MetaResponse describes the index shape so the page can render itself.
type MetaResponse struct {
	Columns       []catalog.Column `json:"columns"`
	SearchColumn  string           `json:"search_column"`
	FilterColumns []string         `json:"filter_columns"`
	Sorts         []string         `json:"sorts"`
	PageSize      int              `json:"page_size"`
	Links         []catalog.Link   `json:"links"`
}

// handleIndex serves the single page application shell.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "PAGE_UNAVAILABLE", "페이지를 불러올 수 없습니다.")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleWorks returns the requested page of the filtered, searched, and
// sorted index.
func (s *Server) handleWorks(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	vs := viewFromRequest(r, s.def, s.policy, s.pageSize)

	records, totalRows, totalPages := vs.Window(snap.Dataset)
	q := vs.Query()

	filters := q.Filters
	if filters == nil {
		filters = map[string]string{}
	}

	writeJSON(w, WorksResponse{
		Records:    records,
		Page:       vs.Page(),
		PageSize:   vs.PageSize(),
		TotalRows:  totalRows,
		TotalPages: totalPages,
		Sort:       string(q.Sort),
		Search:     q.Search,
		Filters:    filters,
	})
}

// handleFilters returns the selectable values per filter column, each
// narrowed by the selections above it in the hierarchy.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	vs := viewFromRequest(r, s.def, s.policy, s.pageSize)
	q := vs.Query()

	options := s.def.FilterOptions(snap.Dataset, q)

	out := make([]FilterColumnResponse, 0, len(s.def.FilterColumns))
	for _, col := range s.def.FilterColumns {
		values := options[col]
		if values == nil {
			values = []string{}
		}
		out = append(out, FilterColumnResponse{
			Column:   col,
			Label:    s.columnLabel(col),
			Values:   values,
			Selected: q.Filter(col),
		})
	}

	writeJSON(w, out)
}

// handleStatus returns feed freshness and the current error banner, if any.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()

	resp := StatusResponse{
		Loading:   snap.Loading,
		Error:     snap.Err,
		TotalRows: len(snap.Dataset),
		Seq:       snap.Seq,
	}
	if !snap.LastUpdated.IsZero() {
		resp.LastUpdated = snap.LastUpdated.Format(time.RFC3339)
	}

	writeJSON(w, resp)
}

// handleMeta returns the static index shape.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, MetaResponse{
		Columns:       s.def.DisplayColumns,
		SearchColumn:  s.def.SearchColumn,
		FilterColumns: s.def.FilterColumns,
		Sorts:         []string{string(catalog.SortByTitle), string(catalog.SortBySource)},
		PageSize:      s.pageSize,
		Links:         s.def.Links,
	})
}

// handleExport downloads the full current result set (all pages) as CSV,
// honoring the same filter, search, and sort parameters as /api/works.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	vs := viewFromRequest(r, s.def, s.policy, s.pageSize)

	results := s.def.Results(snap.Dataset, vs.Query())
	columns := s.def.ColumnNames()

	filename := fmt.Sprintf("munhakdex_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// BOM so Korean text opens correctly in Excel
	w.Write([]byte("\uFEFF"))

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(columns); err != nil {
		// Can't change status code after writing, just stop
		return
	}
	for _, rec := range results {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := csvWriter.Write(row); err != nil {
			return
		}
	}
	csvWriter.Flush()
}

// columnLabel resolves the display label for a column name.
func (s *Server) columnLabel(name string) string {
	for _, col := range s.def.DisplayColumns {
		if col.Name == name {
			if col.Label != "" {
				return col.Label
			}
			return col.Name
		}
	}
	return name
}
