package render

// PageLink is one control in the pagination bar: either a numbered
// button or a disabled gap marker.
type PageLink struct {
	Number int
	Active bool
	Gap    bool
}

type Pagination struct {
	Current int
	Total   int
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
	Links   []PageLink
}

// BuildPagination computes the page-number window for the board list:
// page 1, the last page, and current ±2 are shown; runs in between
// collapse to a single gap marker. Returns nil when everything fits on
// one page, which renders the control empty.
func BuildPagination(current, totalCount, pageSize int) *Pagination {
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}

	p := &Pagination{
		Current: current,
		Total:   totalPages,
		Prev:    current - 1,
		Next:    current + 1,
		HasPrev: current > 1,
		HasNext: current < totalPages,
	}
	for i := 1; i <= totalPages; i++ {
		switch {
		case i == 1 || i == totalPages || (i >= current-2 && i <= current+2):
			p.Links = append(p.Links, PageLink{Number: i, Active: i == current})
		case i == current-3 || i == current+3:
			p.Links = append(p.Links, PageLink{Gap: true})
		}
	}
	return p
}
