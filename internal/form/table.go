package form

// Column is one table header cell.
type Column struct {
	Key     string
	Label   string
	Classes []string
}

// Link is an operation offered on a table row.
type Link struct {
	Name  string
	Title string
	URL   string
	// Method is the HTTP method; POST operations render as buttons.
	Method string
}

// Cell is one table cell. Exactly one of Text, Weight or Links is meaningful,
// selected by the column key the cell sits under.
type Cell struct {
	Key  string
	Text string

	// Weight cells render as a select named WeightName.
	WeightName    string
	Weight        int
	WeightOptions []int

	Links []Link
}

// Row is one table row, keyed by entity ID.
type Row struct {
	ID    string
	Cells []Cell
}

// Table is a list of rows. Draggable tables carry a weight column that the
// client reorders.
type Table struct {
	Name      string
	Columns   []Column
	Rows      []Row
	Empty     string
	Draggable bool
}

func (t *Table) Key() string { return t.Name }
