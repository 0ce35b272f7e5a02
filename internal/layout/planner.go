// Package layout decides where column and page breaks go in the two-column grid.
package layout

// Break is what follows a block in the output.
type Break int

const (
	NoBreak Break = iota
	ColumnBreak
	PageBreak
)

func (b Break) String() string {
	switch b {
	case ColumnBreak:
		return "column"
	case PageBreak:
		return "page"
	default:
		return "none"
	}
}

// Marker returns the LaTeX command for the break, or "" for NoBreak.
func (b Break) Marker() string {
	switch b {
	case ColumnBreak:
		return `\columnbreak`
	case PageBreak:
		return `\newpage`
	default:
		return ""
	}
}

// ColumnsPerPage is fixed by the two-column environment in the preamble.
const ColumnsPerPage = 2

// Planner maps a block's 1-based ordinal to the break that follows it.
type Planner struct {
	rows int
}

// NewPlanner returns a Planner with rows per column. Values below 1 become 1.
func NewPlanner(rowsPerColumn int) Planner {
	if rowsPerColumn < 1 {
		rowsPerColumn = 1
	}
	return Planner{rows: rowsPerColumn}
}

// RowsPerColumn returns the normalised row count.
func (p Planner) RowsPerColumn() int {
	if p.rows < 1 {
		return 1
	}
	return p.rows
}

// PerPage is the number of diagrams on a full page.
func (p Planner) PerPage() int {
	return ColumnsPerPage * p.RowsPerColumn()
}

// After returns the break to emit after block ordinal n (1-based).
// Every Rth block closes a column. An odd number of filled columns means the
// left column is done; an even number means the page is done.
func (p Planner) After(n int) Break {
	r := p.RowsPerColumn()
	if n < 1 || n%r != 0 {
		return NoBreak
	}
	if (n/r)%2 == 1 {
		return ColumnBreak
	}
	return PageBreak
}
