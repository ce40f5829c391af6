package dockwerk

import "fmt"

// Insets is the CSS box-model spacing a Widget reserves between its own
// placed Rect and its content area: Top, Right, Bottom, Left, clockwise
// from the top. Widget.Padding and SplitLayout.majorHint are the two
// consumers — a layout reads it to reserve extra room along its major
// axis, ContentRect applies it to a widget's own placed Rect.
type Insets struct {
	Top, Right, Bottom, Left int
}

// NewInsets builds an Insets from CSS shorthand: zero, one, two, three,
// or four values, per Set.
func NewInsets(values ...int) *Insets {
	i := Insets{}
	i.Set(values...)
	return &i
}

// Set assigns all four sides from CSS shorthand: no values zeros every
// side; one value is uniform; two are (vertical, horizontal); three are
// (top, horizontal, bottom); four or more are (top, right, bottom, left)
// and anything past the fourth is ignored.
func (i *Insets) Set(values ...int) {
	switch len(values) {
	case 0:
		i.Top, i.Right, i.Bottom, i.Left = 0, 0, 0, 0
	case 1:
		i.Top, i.Right, i.Bottom, i.Left = values[0], values[0], values[0], values[0]
	case 2:
		i.Top, i.Right, i.Bottom, i.Left = values[0], values[1], values[0], values[1]
	case 3:
		i.Top, i.Right, i.Bottom, i.Left = values[0], values[1], values[2], values[1]
	default:
		i.Top, i.Right, i.Bottom, i.Left = values[0], values[1], values[2], values[3]
	}
}

// Info renders the insets CSS-shorthand style: "(top right bottom left)".
func (i *Insets) Info() string {
	return fmt.Sprintf("(%d %d %d %d)", i.Top, i.Right, i.Bottom, i.Left)
}

// Horizontal is the left+right spacing a layout must add to a content
// width to get the box width.
func (i *Insets) Horizontal() int {
	return i.Left + i.Right
}

// Vertical is the top+bottom spacing a layout must add to a content
// height to get the box height.
func (i *Insets) Vertical() int {
	return i.Top + i.Bottom
}

// Total is the (horizontal, vertical) pair Horizontal/Vertical return
// individually, bundled for a caller that wants both at once.
func (i *Insets) Total() (int, int) {
	return i.Horizontal(), i.Vertical()
}
