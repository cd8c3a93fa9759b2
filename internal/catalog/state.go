package catalog

// ViewState is the centrally-owned mutable state of one index view: the
// active query plus the current page. All pipeline inputs flow through it so
// there are no ambient globals, and the page-reset rule lives in exactly one
// place: any change to filters, search, or sort puts the view back on page 1.
//
// ViewState is not safe for concurrent use; each view owns one.
type ViewState struct {
	def    *Definition
	policy CascadePolicy

	query    Query
	page     int
	pageSize int
}

// NewViewState creates a view on the given definition. A non-positive
// pageSize falls back to DefaultPageSize.
func NewViewState(def *Definition, policy CascadePolicy, pageSize int) *ViewState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ViewState{
		def:      def,
		policy:   policy,
		query:    Query{Sort: SortByTitle},
		page:     1,
		pageSize: pageSize,
	}
}

// Query returns the current pipeline input.
func (s *ViewState) Query() Query { return s.query }

// Page returns the current 1-based page number.
func (s *ViewState) Page() int { return s.page }

// PageSize returns the configured window size.
func (s *ViewState) PageSize() int { return s.pageSize }

// SetSearch replaces the search term and resets to page 1.
func (s *ViewState) SetSearch(term string) {
	s.query.Search = term
	s.page = 1
}

// SetFilter applies a filter selection (empty value clears the column) and
// resets to page 1. Under CascadeClear, selections below the changed column
// in the hierarchy are cleared as well.
func (s *ViewState) SetFilter(column, value string) {
	s.query = s.query.WithFilter(s.def, s.policy, column, value)
	s.page = 1
}

// SetSort switches the sort mode and resets to page 1. Unknown modes fall
// back to SortByTitle.
func (s *ViewState) SetSort(mode SortMode) {
	if !mode.Valid() {
		mode = SortByTitle
	}
	s.query.Sort = mode
	s.page = 1
}

// SetPage moves to a page without touching the query. Clamping against the
// actual result count happens at render time in Window.
func (s *ViewState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

// Window runs the full derivation against a dataset and returns the visible
// page plus the total result and page counts. The stored page number is
// clamped against the fresh result count, so a dataset refresh that shrinks
// the results can never leave the view on a silently-empty page.
func (s *ViewState) Window(ds Dataset) (page []Record, totalRows, totalPages int) {
	results := s.def.Results(ds, s.query)
	totalRows = len(results)
	totalPages = PageCount(totalRows, s.pageSize)
	s.page = ClampPage(s.page, totalRows, s.pageSize)
	return Paginate(results, s.pageSize, s.page), totalRows, totalPages
}
