package zone

import (
	"testing"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
)

func mkZones(rects ...geom.Rect) []*Zone {
	zs := make([]*Zone, len(rects))
	for i, r := range rects {
		zs[i] = &Zone{ID: i, Bounds: r}
	}
	return zs
}

func orderOf(zs []*Zone) []int {
	out := make([]int, len(zs))
	for i, z := range zs {
		out[i] = z.ReadingOrder
	}
	return out
}

func TestAssignReadingOrder_SingleColumn(t *testing.T) {
	zs := mkZones(
		geom.Rect{X: 50, Y: 300, Width: 400, Height: 60},
		geom.Rect{X: 50, Y: 100, Width: 400, Height: 60},
		geom.Rect{X: 50, Y: 500, Width: 400, Height: 60},
	)
	AssignReadingOrder(zs)

	want := []int{2, 1, 3}
	got := orderOf(zs)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reading order = %v, want %v", got, want)
		}
	}
}

func TestAssignReadingOrder_TwoColumns(t *testing.T) {
	left1 := geom.Rect{X: 50, Y: 100, Width: 300, Height: 60}
	left2 := geom.Rect{X: 50, Y: 400, Width: 300, Height: 60}
	right1 := geom.Rect{X: 500, Y: 100, Width: 300, Height: 60}
	right2 := geom.Rect{X: 500, Y: 400, Width: 300, Height: 60}

	zs := mkZones(right2, left1, right1, left2)
	AssignReadingOrder(zs)

	// Left column fully before right column, each top to bottom.
	if zs[1].ReadingOrder != 1 || zs[3].ReadingOrder != 2 {
		t.Errorf("left column order = %d,%d, want 1,2", zs[1].ReadingOrder, zs[3].ReadingOrder)
	}
	if zs[2].ReadingOrder != 3 || zs[0].ReadingOrder != 4 {
		t.Errorf("right column order = %d,%d, want 3,4", zs[2].ReadingOrder, zs[0].ReadingOrder)
	}
}

func TestAssignReadingOrder_OverlappingColumnsMerge(t *testing.T) {
	// A full-width title bridges both columns, pulling everything into
	// one band ordered purely top to bottom.
	title := geom.Rect{X: 50, Y: 20, Width: 750, Height: 60}
	left := geom.Rect{X: 50, Y: 200, Width: 300, Height: 60}
	right := geom.Rect{X: 500, Y: 150, Width: 300, Height: 60}

	zs := mkZones(left, right, title)
	AssignReadingOrder(zs)

	if zs[2].ReadingOrder != 1 {
		t.Errorf("title order = %d, want 1", zs[2].ReadingOrder)
	}
	if zs[1].ReadingOrder != 2 || zs[0].ReadingOrder != 3 {
		t.Errorf("band order = right %d, left %d, want 2, 3", zs[1].ReadingOrder, zs[0].ReadingOrder)
	}
}

func TestAssignReadingOrder_RowTieBreaksLeftToRight(t *testing.T) {
	a := geom.Rect{X: 400, Y: 100, Width: 200, Height: 40}
	b := geom.Rect{X: 100, Y: 100, Width: 350, Height: 40} // overlaps a's band

	zs := mkZones(a, b)
	AssignReadingOrder(zs)

	if zs[1].ReadingOrder != 1 || zs[0].ReadingOrder != 2 {
		t.Errorf("same-row order = %d,%d, want left first", zs[1].ReadingOrder, zs[0].ReadingOrder)
	}
}

func TestAssignReadingOrder_Idempotent(t *testing.T) {
	zs := mkZones(
		geom.Rect{X: 500, Y: 400, Width: 300, Height: 60},
		geom.Rect{X: 50, Y: 100, Width: 300, Height: 60},
		geom.Rect{X: 50, Y: 400, Width: 300, Height: 60},
	)
	AssignReadingOrder(zs)
	first := orderOf(zs)
	AssignReadingOrder(zs)
	second := orderOf(zs)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order changed between runs: %v then %v", first, second)
		}
	}
}

func TestAssignReadingOrder_Empty(t *testing.T) {
	AssignReadingOrder(nil) // must not panic
}

func TestAssignReadingOrder_ClassifiedSingleColumn(t *testing.T) {
	c := NewClassifier(DefaultClassifyParams())
	page := geom.Rect{Width: 1000, Height: 1400}

	zs := mkZones(
		geom.Rect{X: 50, Y: 30, Width: 700, Height: 80},
		geom.Rect{X: 50, Y: 600, Width: 700, Height: 200},
		geom.Rect{X: 100, Y: 1320, Width: 600, Height: 30},
	)
	for _, z := range zs {
		z.Type, z.TypeConfidence = c.Classify(Candidate{Bounds: z.Bounds}, page, "")
	}
	AssignReadingOrder(zs)

	want := []Type{TypeHeader, TypeBody, TypeFooter}
	byOrder := make([]Type, len(zs))
	for _, z := range zs {
		byOrder[z.ReadingOrder-1] = z.Type
	}
	for i := range want {
		if byOrder[i] != want[i] {
			t.Fatalf("types in reading order = %v, want %v", byOrder, want)
		}
	}
}
