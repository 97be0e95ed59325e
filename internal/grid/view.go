package grid

// DeriveView runs the view pipeline: filter, then sort.
func DeriveView(data []Row, filters FilterModel, query string, model SortModel) []Row {
	return SortRows(FilterRows(data, filters, query), model)
}

// Paginate returns rows[(page-1)*pageSize : page*pageSize], clipped to the
// slice. Out-of-range pages and non-positive sizes yield an empty page.
func Paginate(rows []Row, page, pageSize int) []Row {
	start, end := pageRange(len(rows), page, pageSize)
	if start >= end {
		return []Row{}
	}
	return rows[start:end]
}

func pageRange(n, page, pageSize int) (int, int) {
	if page < 1 || pageSize <= 0 || n <= 0 {
		return 0, 0
	}
	// reject before multiplying so huge pages cannot wrap around
	if page-1 > (n-1)/pageSize {
		return 0, 0
	}
	start := (page - 1) * pageSize
	end := n
	if pageSize < n-start {
		end = start + pageSize
	}
	return start, end
}

// CurrentPage returns the rows of the state's current page.
func CurrentPage(s GridState) []Row {
	return Paginate(s.FilteredData, s.Pagination.Page, s.Pagination.PageSize)
}

// CurrentPageIDs returns the ids of the rows on the current page.
func CurrentPageIDs(s GridState) []string {
	page := CurrentPage(s)
	ids := make([]string, len(page))
	for i, row := range page {
		ids[i] = RowID(row)
	}
	return ids
}

// PageAllSelected reports whether the current page is non-empty and every row
// on it is selected. This drives the select-all checkbox.
func PageAllSelected(s GridState) bool {
	ids := CurrentPageIDs(s)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}

// TotalPages returns ceil(total/pageSize), or 0 when pageSize is not positive.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageBounds returns the 1-based first and last item numbers shown on page,
// as in "Showing 26 to 50 of 60". An empty page returns (0, 0).
func PageBounds(total, page, pageSize int) (first, last int) {
	start, end := pageRange(total, page, pageSize)
	if start >= end {
		return 0, 0
	}
	return start + 1, end
}

// PageWindow returns up to width consecutive page numbers centered on current
// and shifted to stay within [1, totalPages].
func PageWindow(current, totalPages, width int) []int {
	if totalPages <= 0 || width <= 0 {
		return []int{}
	}
	start := max(1, current-width/2)
	end := min(totalPages, start+width-1)
	if end-start+1 < width {
		start = max(1, end-width+1)
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Window is the index range of rows a virtualized viewport renders.
type Window struct {
	Start       int // first rendered index
	End         int // last rendered index, inclusive; -1 when there are no items
	TotalHeight int // height of all items
	OffsetY     int // offset of the first rendered item
}

// VisibleRange computes the rows a viewport of containerHeight scrolled to
// scrollTop needs, padded by overscan rows on either side.
func VisibleRange(scrollTop, itemHeight, containerHeight, itemCount, overscan int) Window {
	if itemHeight <= 0 || itemCount <= 0 {
		return Window{Start: 0, End: -1}
	}
	end := min(itemCount-1, ceilDiv(scrollTop+containerHeight, itemHeight)+overscan)
	start := min(max(0, scrollTop/itemHeight-overscan), end)
	return Window{
		Start:       start,
		End:         end,
		TotalHeight: itemCount * itemHeight,
		OffsetY:     start * itemHeight,
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
