package grid

// NoRow is the row index of a cursor over an empty dataset.
const NoRow = -1

// Cursor is the selected cell of the active dataset. Row counts are passed
// in on every call because the rows can be replaced between calls.
type Cursor struct {
	Row int
	Col int
}

// NewCursor returns a cursor with no row selected.
func NewCursor() Cursor {
	return Cursor{Row: NoRow}
}

// Selected reports whether a row is selected.
func (c Cursor) Selected() bool {
	return c.Row >= 0
}

// NextRow moves down one row, wrapping from the last row to the first.
func (c *Cursor) NextRow(rows int) {
	if rows <= 0 {
		c.Row = NoRow
		return
	}
	if c.Row < 0 || c.Row >= rows-1 {
		c.Row = 0
		return
	}
	c.Row++
}

// PrevRow moves up one row, wrapping from the first row to the last.
func (c *Cursor) PrevRow(rows int) {
	if rows <= 0 {
		c.Row = NoRow
		return
	}
	if c.Row <= 0 || c.Row >= rows {
		c.Row = rows - 1
		return
	}
	c.Row--
}

// NextColumn moves right, stopping at the last column.
func (c *Cursor) NextColumn(cols int) {
	if c.Col < cols-1 {
		c.Col++
	}
	c.clampCol(cols)
}

// PrevColumn moves left, stopping at the first column.
func (c *Cursor) PrevColumn() {
	if c.Col > 0 {
		c.Col--
	}
}

// Clamp restores the cursor invariants after the rows or the column set changed.
// An out of range row moves to the last row; a dataset that gained rows
// selects the first one.
func (c *Cursor) Clamp(rows, cols int) {
	switch {
	case rows <= 0:
		c.Row = NoRow
	case c.Row < 0:
		c.Row = 0
	case c.Row >= rows:
		c.Row = rows - 1
	}
	c.clampCol(cols)
}

func (c *Cursor) clampCol(cols int) {
	if c.Col >= cols {
		c.Col = cols - 1
	}
	if c.Col < 0 {
		c.Col = 0
	}
}
