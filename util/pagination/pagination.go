// Package pagination converts (page, pageSize, total) into a bounded
// query window plus the display metadata the listing views render.
package pagination

type Window struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	Offset     int `json:"-"`
	Limit      int `json:"-"`
	StartItem  int `json:"start_item"`
	EndItem    int `json:"end_item"`
}

// New clamps the requested page into [1, totalPages] and derives
// offset/limit. A total of zero still yields one (empty) page with
// start/end items of zero.
func New(page, pageSize, total int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	w := Window{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	}
	if total > 0 {
		w.StartItem = w.Offset + 1
		w.EndItem = w.Offset + pageSize
		if w.EndItem > total {
			w.EndItem = total
		}
	}
	return w
}
