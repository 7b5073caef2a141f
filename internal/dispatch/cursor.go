package dispatch

// Cursor is the list selection used to target upgrades. The zero value has
// nothing selected.
type Cursor struct {
	index    int
	selected bool
}

// Selected reports the selected index, if any.
func (c Cursor) Selected() (int, bool) {
	return c.index, c.selected
}

// Select points the cursor at i, clamped into [0, n).
func (c *Cursor) Select(i, n int) {
	if n <= 0 {
		*c = Cursor{}
		return
	}
	c.index = min(max(i, 0), n-1)
	c.selected = true
}

// Next moves down one row, wrapping to the top. With nothing selected it
// selects the first row.
func (c *Cursor) Next(n int) {
	if n <= 0 {
		*c = Cursor{}
		return
	}
	if !c.selected {
		c.Select(0, n)
		return
	}
	c.Select((c.index+1)%n, n)
}

// Previous moves up one row, wrapping to the bottom. With nothing selected
// it selects the first row.
func (c *Cursor) Previous(n int) {
	if n <= 0 {
		*c = Cursor{}
		return
	}
	if !c.selected {
		c.Select(0, n)
		return
	}
	c.Select((c.index-1+n)%n, n)
}
