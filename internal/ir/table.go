package ir

// Table is a grid of cells. After Normalize every row has the same length.
type Table struct {
	Rows [][]Cell `json:"rows" yaml:"rows"`
}

// Cell represents a single cell in a table.
type Cell struct {
	Text         string    `json:"text" yaml:"text"`
	Style        *Style    `json:"style" yaml:"style"`
	Segments     []Segment `json:"segments" yaml:"segments"`
	Merge        Merge     `json:"merge" yaml:"merge"`
	NestedTables []*Table  `json:"nestedTables" yaml:"nestedTables"`
}

// Merge holds the span, size and background of a cell.
type Merge struct {
	ColSpan int    `json:"colSpan" yaml:"colSpan"`
	RowSpan int    `json:"rowSpan" yaml:"rowSpan"`
	BgColor string `json:"bgColor,omitempty" yaml:"bgColor,omitempty"`
	Width   *int   `json:"width,omitempty" yaml:"width,omitempty"`
	Height  *int   `json:"height,omitempty" yaml:"height,omitempty"`
}

// NewCell returns an empty cell with unit spans.
func NewCell() Cell {
	return Cell{
		Segments:     make([]Segment, 0),
		Merge:        Merge{ColSpan: 1, RowSpan: 1},
		NestedTables: make([]*Table, 0),
	}
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{Rows: make([][]Cell, 0)}
}

// AddRow appends a row. Rows without cells are dropped.
func (t *Table) AddRow(cells []Cell) {
	if len(cells) == 0 {
		return
	}
	t.Rows = append(t.Rows, cells)
}

// Cols returns the length of the widest row.
func (t *Table) Cols() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// IsEmpty returns true if the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Normalize pads short rows with empty cells so that every row has Cols() cells.
func (t *Table) Normalize() {
	cols := t.Cols()
	for i, row := range t.Rows {
		for len(row) < cols {
			row = append(row, NewCell())
		}
		t.Rows[i] = row
	}
}
