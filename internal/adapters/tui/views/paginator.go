package views

// Paginator keeps a cursor inside a scrolling window over a list
type Paginator struct {
	pageSize int
	offset   int
	cursor   int
	total    int
}

// NewPaginator creates a paginator showing pageSize rows at a time
func NewPaginator(pageSize int) *Paginator {
	p := &Paginator{}
	p.SetPageSize(pageSize)
	return p
}

// SetPageSize changes the number of visible rows
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 {
		size = 10
	}
	p.pageSize = size
	p.follow()
}

// SetTotal sets the number of rows, clamping the cursor
func (p *Paginator) SetTotal(total int) {
	p.total = max(total, 0)
	p.SetCursor(p.cursor)
}

// Total returns the number of rows
func (p *Paginator) Total() int {
	return p.total
}

// Cursor returns the selected row
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor selects a row, clamped to the list
func (p *Paginator) SetCursor(pos int) {
	p.cursor = max(0, min(pos, p.total-1))
	p.follow()
}

// CursorUp moves the selection up one row
func (p *Paginator) CursorUp() bool {
	if p.cursor == 0 {
		return false
	}
	p.SetCursor(p.cursor - 1)
	return true
}

// CursorDown moves the selection down one row
func (p *Paginator) CursorDown() bool {
	if p.cursor >= p.total-1 {
		return false
	}
	p.SetCursor(p.cursor + 1)
	return true
}

// VisibleRange returns the half-open range of rows on screen
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.pageSize, p.total)
}

// follow scrolls the window so the cursor stays visible
func (p *Paginator) follow() {
	switch {
	case p.cursor < p.offset:
		p.offset = p.cursor
	case p.cursor >= p.offset+p.pageSize:
		p.offset = p.cursor - p.pageSize + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}
