// Package pagination computes the page controls shown under a result list:
// the first page, a window around the current page, the last page, and
// ellipses for the gaps.
package pagination

import "strconv"

// PageSize is the number of results per catalog page. Gutendex fixes it.
const PageSize = 32

// windowRadius is how many pages are shown on each side of the current one.
const windowRadius = 2

// Control is a single pagination element: a page number or an ellipsis.
type Control struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Active   bool `json:"active,omitempty"`
}

// Label is the text a renderer shows for the control.
func (c Control) Label() string {
	if c.Ellipsis {
		return "..."
	}
	return strconv.Itoa(c.Page)
}

// TotalPages returns ceil(count / PageSize), never less than 1.
func TotalPages(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + PageSize - 1) / PageSize
}

// Clamp forces current into [1, total] with total >= 1.
func Clamp(total, current int) (int, int) {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	return total, current
}

// Plan returns the ordered controls for totalPages and currentPage.
//
// Page 1 always comes first and the last page last (when there is more than
// one page). Up to two pages either side of the current page fill the middle.
// A leading ellipsis appears once currentPage > 3 and a trailing one while
// currentPage < totalPages-3.
func Plan(totalPages, currentPage int) []Control {
	total, current := Clamp(totalPages, currentPage)

	controls := make([]Control, 0, 2*windowRadius+5)
	page := func(n int) Control {
		return Control{Page: n, Active: n == current}
	}

	controls = append(controls, page(1))

	if current > windowRadius+1 {
		controls = append(controls, Control{Ellipsis: true})
	}

	start := max(2, current-windowRadius)
	end := min(total-1, current+windowRadius)
	for n := start; n <= end; n++ {
		controls = append(controls, page(n))
	}

	if current < total-(windowRadius+1) {
		controls = append(controls, Control{Ellipsis: true})
	}

	if total > 1 {
		controls = append(controls, page(total))
	}

	return controls
}

// Pages returns just the page numbers in controls, in order.
func Pages(controls []Control) []int {
	pages := make([]int, 0, len(controls))
	for _, c := range controls {
		if !c.Ellipsis {
			pages = append(pages, c.Page)
		}
	}
	return pages
}
