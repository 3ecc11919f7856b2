package geom

import (
	"math"
	"testing"
)

func TestNewRect(t *testing.T) {
	rect := NewRect(10, 20, 100, 50)

	if rect.X != 10 {
		t.Errorf("expected X=10, got %d", rect.X)
	}
	if rect.Y != 20 {
		t.Errorf("expected Y=20, got %d", rect.Y)
	}
	if rect.Width != 100 {
		t.Errorf("expected Width=100, got %d", rect.Width)
	}
	if rect.Height != 50 {
		t.Errorf("expected Height=50, got %d", rect.Height)
	}
}

func TestRect_Area(t *testing.T) {
	rect := NewRect(0, 0, 100, 50)
	if rect.Area() != 5000 {
		t.Errorf("expected area 5000, got %d", rect.Area())
	}
}

func TestRect_Edges(t *testing.T) {
	rect := NewRect(10, 20, 100, 50)
	if rect.Right() != 110 {
		t.Errorf("expected right edge 110, got %d", rect.Right())
	}
	if rect.Bottom() != 70 {
		t.Errorf("expected bottom edge 70, got %d", rect.Bottom())
	}
	if rect.CenterX() != 60 {
		t.Errorf("expected center x 60, got %d", rect.CenterX())
	}
	if rect.CenterY() != 45 {
		t.Errorf("expected center y 45, got %d", rect.CenterY())
	}
}

func TestRect_Contains(t *testing.T) {
	rect := NewRect(10, 20, 100, 50)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 5, 40, false},
		{"outside top", 50, 15, false},
		{"outside right", 115, 40, false},
		{"outside bottom", 50, 75, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rect.Contains(tt.x, tt.y)
			if got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	rect := NewRect(10, 10, 100, 100)

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", NewRect(50, 50, 100, 100), true},
		{"contained", NewRect(20, 20, 10, 10), true},
		{"disjoint right", NewRect(200, 10, 50, 50), false},
		{"disjoint below", NewRect(10, 200, 50, 50), false},
		{"edge touching", NewRect(110, 10, 50, 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rect.Intersects(tt.other)
			if got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRect_Intersection(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(50, 50, 100, 100)

	got := a.Intersection(b)
	want := NewRect(50, 50, 50, 50)
	if got != want {
		t.Errorf("Intersection = %v, want %v", got, want)
	}

	disjoint := a.Intersection(NewRect(500, 500, 10, 10))
	if !disjoint.Empty() {
		t.Errorf("expected empty intersection, got %v", disjoint)
	}
}

func TestRect_Union(t *testing.T) {
	a := NewRect(0, 0, 50, 50)
	b := NewRect(100, 100, 50, 50)

	got := a.Union(b)
	want := NewRect(0, 0, 150, 150)
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}

	if a.Union(Rect{}) != a {
		t.Error("union with zero rect should return the original")
	}
	if (Rect{}).Union(b) != b {
		t.Error("union of zero rect with b should return b")
	}
}

func TestRect_OverlapRatio(t *testing.T) {
	a := NewRect(0, 0, 100, 100)

	tests := []struct {
		name  string
		other Rect
		want  float64
	}{
		{"identical", NewRect(0, 0, 100, 100), 1.0},
		{"half of smaller", NewRect(50, 0, 100, 100), 0.5},
		{"contained", NewRect(25, 25, 50, 50), 1.0},
		{"disjoint", NewRect(200, 200, 10, 10), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.OverlapRatio(tt.other)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OverlapRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_Expand(t *testing.T) {
	bounds := NewRect(0, 0, 200, 200)
	r := NewRect(10, 10, 20, 20)

	got := r.Expand(5, bounds)
	want := NewRect(5, 5, 30, 30)
	if got != want {
		t.Errorf("Expand = %v, want %v", got, want)
	}

	// Expansion past the page edge is clipped.
	edge := NewRect(0, 0, 20, 20)
	clipped := edge.Expand(10, bounds)
	if clipped.X != 0 || clipped.Y != 0 {
		t.Errorf("expected clipped origin (0,0), got %v", clipped)
	}
}

func TestRect_AspectRatio(t *testing.T) {
	if r := NewRect(0, 0, 100, 50); r.AspectRatio() != 2.0 {
		t.Errorf("AspectRatio = %v, want 2.0", r.AspectRatio())
	}
	if r := NewRect(0, 0, 100, 0); r.AspectRatio() != 0 {
		t.Errorf("degenerate AspectRatio = %v, want 0", r.AspectRatio())
	}
}
