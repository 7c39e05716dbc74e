package layout

import "testing"

func TestSplit_Horizontal(t *testing.T) {
	area := Rect{X: 5, Y: 2, Width: 100, Height: 40}
	rects, err := Split(area, Horizontal, []Rule{Length(20), Fill(1)}, 0, FlexStretch)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []Rect{
		{X: 5, Y: 2, Width: 20, Height: 40},
		{X: 25, Y: 2, Width: 80, Height: 40},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rects[%d] = %v, want %v", i, rects[i], want[i])
		}
	}
}

func TestSplit_VerticalWithSpacing(t *testing.T) {
	area := Rect{Width: 80, Height: 30}
	rects, err := Split(area, Vertical, []Rule{Length(10), Fill(1)}, 2, FlexStretch)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []Rect{
		{X: 0, Y: 0, Width: 80, Height: 10},
		{X: 0, Y: 12, Width: 80, Height: 18},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rects[%d] = %v, want %v", i, rects[i], want[i])
		}
	}
}

func TestSplit_FlexStart(t *testing.T) {
	area := Rect{Width: 100, Height: 1}
	rects, err := Split(area, Horizontal, []Rule{Length(20), Length(30)}, 0, FlexStart)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if rects[0].X != 0 || rects[0].Width != 20 {
		t.Errorf("rects[0] = %v, want 20 wide at x=0", rects[0])
	}
	if rects[1].X != 20 || rects[1].Width != 30 {
		t.Errorf("rects[1] = %v, want 30 wide at x=20", rects[1])
	}
}

func TestSplit_FlexEnd(t *testing.T) {
	area := Rect{Width: 100, Height: 1}
	rects, err := Split(area, Horizontal, []Rule{Length(20), Length(30)}, 0, FlexEnd)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if rects[0].X != 50 {
		t.Errorf("rects[0].X = %d, want 50", rects[0].X)
	}
	if rects[1].X != 70 {
		t.Errorf("rects[1].X = %d, want 70", rects[1].X)
	}
}

func TestSplit_FlexCenter(t *testing.T) {
	area := Rect{Width: 100, Height: 1}
	rects, err := Split(area, Horizontal, []Rule{Length(20), Length(30)}, 0, FlexCenter)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if rects[0].X != 25 {
		t.Errorf("rects[0].X = %d, want 25", rects[0].X)
	}
	if rects[1].X != 45 {
		t.Errorf("rects[1].X = %d, want 45", rects[1].X)
	}
}

func TestSplit_FlexSpaceBetween(t *testing.T) {
	area := Rect{Width: 100, Height: 1}
	rects, err := Split(area, Horizontal, []Rule{Length(20), Length(30)}, 0, FlexSpaceBetween)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if rects[0].X != 0 {
		t.Errorf("rects[0].X = %d, want 0", rects[0].X)
	}
	if rects[1].X != 70 {
		t.Errorf("rects[1].X = %d, want 70", rects[1].X)
	}
}

func TestSplit_FlexSpaceAround(t *testing.T) {
	// 50 leftover cells over three equal spacers: 17, 17, 16 after
	// apportionment.
	area := Rect{Width: 100, Height: 1}
	rects, err := Split(area, Horizontal, []Rule{Length(20), Length(30)}, 0, FlexSpaceAround)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if rects[0].X != 17 {
		t.Errorf("rects[0].X = %d, want 17", rects[0].X)
	}
	if rects[1].X != 54 {
		t.Errorf("rects[1].X = %d, want 54", rects[1].X)
	}
	if rects[0].Width != 20 || rects[1].Width != 30 {
		t.Errorf("widths = %d, %d, want 20, 30", rects[0].Width, rects[1].Width)
	}
}

func TestSplit_SubrectanglesCoverArea(t *testing.T) {
	area := Rect{X: 3, Y: 7, Width: 97, Height: 13}
	rects, err := Split(area, Horizontal, []Rule{Ratio(1, 3), Fill(1), Length(11)}, 0, FlexStretch)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	x := area.X
	totalWidth := 0
	for i, r := range rects {
		if r.X != x {
			t.Errorf("rects[%d].X = %d, want %d (contiguous)", i, r.X, x)
		}
		if r.Y != area.Y || r.Height != area.Height {
			t.Errorf("rects[%d] cross-axis = (%d, %d), want (%d, %d)",
				i, r.Y, r.Height, area.Y, area.Height)
		}
		x += r.Width
		totalWidth += r.Width
	}
	if totalWidth != area.Width {
		t.Errorf("widths sum to %d, want %d", totalWidth, area.Width)
	}
}

func TestRect_Inner(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 6}
	inner := r.Inner(2)
	want := Rect{X: 12, Y: 12, Width: 16, Height: 2}
	if inner != want {
		t.Errorf("Inner(2) = %v, want %v", inner, want)
	}

	collapsed := Rect{Width: 3, Height: 3}.Inner(5)
	if collapsed.Width != 0 || collapsed.Height != 0 {
		t.Errorf("over-shrunk rect = %v, want zero dimensions", collapsed)
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 1, Y: 1, Width: 2, Height: 2}
	if !r.Contains(1, 1) || !r.Contains(2, 2) {
		t.Error("corner cells should be contained")
	}
	if r.Contains(3, 1) || r.Contains(1, 3) {
		t.Error("cells past the far edge should not be contained")
	}
}

func TestParseDirection(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Direction
	}{
		{"horizontal", Horizontal},
		{"h", Horizontal},
		{"vertical", Vertical},
		{"v", Vertical},
	} {
		got, err := ParseDirection(tc.in)
		if err != nil {
			t.Errorf("ParseDirection(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection of unknown name should fail")
	}
}
