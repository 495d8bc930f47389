package grid

// CursorShape is how the cursor is drawn in a given editor mode.
type CursorShape int

const (
	ShapeBlock CursorShape = iota
	ShapeHorizontal
	ShapeVertical
)

// ShapeFromName maps the protocol's cursor_shape strings. Unknown names
// fall back to a block cursor.
func ShapeFromName(name string) CursorShape {
	switch name {
	case "horizontal":
		return ShapeHorizontal
	case "vertical":
		return ShapeVertical
	default:
		return ShapeBlock
	}
}

// ModeInfo describes the cursor for one editor mode. The mode index is the
// entry's position in the grid's mode table.
type ModeInfo struct {
	Shape          CursorShape
	CellPercentage int // parsed, not used
	AttrID         int // highlight id for the cursor, 0 = invert
	Name           string
	ShortName      string
}

// Cursor is the grid's cursor state. Row/Col are set verbatim from the
// protocol; Mode indexes the mode table; Visible is toggled by busy events.
type Cursor struct {
	Row     int
	Col     int
	Mode    int
	Visible bool
}
