package gallery

import "errors"

var ErrPageOutOfRange = errors.New("page out of range")

// TotalPages is ceil(n / PageSize), and 0 for an empty set.
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// PageSlice returns the records of the 1-based page, or nil when the page does
// not exist.
func PageSlice(records []Record, page int) []Record {
	if page < 1 || page > TotalPages(len(records)) {
		return nil
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// View holds the page state of one gallery visit: the merged records, the
// active category and the current page.
type View struct {
	records  []Record
	filtered []Record
	category string
	page     int
}

func NewView(records []Record) *View {
	return &View{
		records:  records,
		filtered: records,
		category: AllCategory,
		page:     1,
	}
}

func (v *View) Category() string { return v.category }

func (v *View) Page() int { return v.page }

func (v *View) Filtered() []Record { return v.filtered }

func (v *View) TotalPages() int { return TotalPages(len(v.filtered)) }

func (v *View) Items() []Record { return PageSlice(v.filtered, v.page) }

func (v *View) HasNext() bool { return v.page < v.TotalPages() }

func (v *View) HasPrev() bool { return v.page > 1 }

// SetCategory switches the filter and always returns to page 1, even when the
// category does not change.
func (v *View) SetCategory(category string) {
	v.category = category
	v.filtered = Filter(v.records, category)
	v.page = 1
}

// Next advances one page. It reports whether the page changed.
func (v *View) Next() bool {
	if !v.HasNext() {
		return false
	}
	v.page++
	return true
}

// Prev goes back one page. It reports whether the page changed.
func (v *View) Prev() bool {
	if !v.HasPrev() {
		return false
	}
	v.page--
	return true
}

// GoTo jumps to page n. Pages outside 1..TotalPages are rejected and leave the
// view unchanged.
func (v *View) GoTo(n int) error {
	if n < 1 || n > v.TotalPages() {
		return ErrPageOutOfRange
	}
	v.page = n
	return nil
}
