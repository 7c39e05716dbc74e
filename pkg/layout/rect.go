package layout

import "fmt"

// Rect is an axis-aligned rectangle in cell coordinates, the currency of
// terminal layout. X grows rightward, Y grows downward.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String formats the rectangle as "WxH@(X,Y)".
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}

// Area returns the number of cells the rectangle covers.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Contains reports whether the cell at (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Inner returns the rectangle shrunk by margin cells on every side. The
// result never has negative dimensions.
func (r Rect) Inner(margin int) Rect {
	if margin <= 0 {
		return r
	}
	shrink := min(margin, r.Width/2)
	out := Rect{X: r.X + shrink, Width: max(r.Width-2*margin, 0)}
	shrink = min(margin, r.Height/2)
	out.Y = r.Y + shrink
	out.Height = max(r.Height-2*margin, 0)
	return out
}

// Direction selects the axis along which [Split] slices a rectangle.
type Direction uint8

const (
	// Horizontal splits a rectangle into columns, apportioning width.
	Horizontal Direction = iota

	// Vertical splits a rectangle into rows, apportioning height.
	Vertical
)

// String returns "horizontal" or "vertical".
func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseDirection converts a configuration name into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown direction %q", s)
}

// Split slices area along dir into one sub-rectangle per rule, in rule
// order. Consecutive items are separated by spacing cells and leftover
// extent is placed per the flex policy. The cross-axis dimension is carried
// through unchanged.
//
// Like [Solve], Split degrades gracefully: impossible requests yield
// clamped, possibly inexact sub-rectangles rather than an error.
func Split(area Rect, dir Direction, rules []Rule, spacing int, flex Flex) ([]Rect, error) {
	extent := area.Width
	if dir == Vertical {
		extent = area.Height
	}
	sizes, offsets, err := solveSegments(rules, extent, spacing, flex)
	if err != nil {
		return nil, err
	}

	out := make([]Rect, len(rules))
	for i := range rules {
		if dir == Vertical {
			out[i] = Rect{
				X:      area.X,
				Y:      area.Y + offsets[i],
				Width:  area.Width,
				Height: sizes[i],
			}
		} else {
			out[i] = Rect{
				X:      area.X + offsets[i],
				Y:      area.Y,
				Width:  sizes[i],
				Height: area.Height,
			}
		}
	}
	return out, nil
}
