package catalog

// DefaultPageSize is the number of records per result page.
const DefaultPageSize = 20

// PageCount returns ceil(total/size). Zero results mean zero pages; callers
// render no pagination in that case.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage folds an out-of-range 1-based page number back into
// [1, PageCount]. An empty result set clamps to 1 so "page 1 of nothing" is
// a valid, empty view rather than an error.
func ClampPage(page, total, size int) int {
	pages := PageCount(total, size)
	if pages == 0 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

// Paginate returns the contiguous window for a 1-based page number, clamped
// into range. The slice aliases the input; callers must not mutate it.
func Paginate(records []Record, size, page int) []Record {
	if size <= 0 || len(records) == 0 {
		return []Record{}
	}
	page = ClampPage(page, len(records), size)

	start := (page - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
