package grid

// Cell is one character cell of the remote screen.
//
// An empty Text marks the continuation column of a wide glyph stored in the
// cell to its left; the continuation carries the same highlight id as the
// lead cell.
type Cell struct {
	Text string
	HlID int
}

// blank is what cleared regions are filled with.
var blank = Cell{Text: " ", HlID: 0}

// Run is one segment of a grid_line update: a glyph written Repeat times
// starting at the current column. HlID -1 inherits the id of the previous
// run in the same call; Repeat 0 means 1.
type Run struct {
	Text   string
	HlID   int
	Repeat int
}

// Color is a 24-bit RGB value. Negative values mean "unset": fall through to
// the default color, or ultimately to the terminal's own default.
type Color int32

// ColorNone is the unset sentinel. It doubles as the protocol's
// "leave this channel unchanged" value in default_colors_set.
const ColorNone Color = -1

// RGB splits the color into its channels. Only meaningful when c >= 0.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// DefaultColors is the fallback triple used by cells whose highlight
// attributes leave a channel unset.
type DefaultColors struct {
	Fg      Color
	Bg      Color
	Special Color
}
