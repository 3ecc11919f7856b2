package zone

import "sort"

// AssignReadingOrder numbers zones the way a reader scans the page:
// zones are grouped into vertical column bands (boxes whose horizontal
// extents overlap belong to the same band), bands run left to right,
// and within a band zones run top to bottom. Ordering is deterministic
// and stable for equal coordinates, so calling it again on the same
// zones yields the same numbering.
func AssignReadingOrder(zones []*Zone) {
	if len(zones) == 0 {
		return
	}

	// Union boxes whose X intervals overlap into column bands.
	parent := make([]int, len(zones))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < len(zones); i++ {
		for j := i + 1; j < len(zones); j++ {
			a, b := zones[i].Bounds, zones[j].Bounds
			if a.X < b.Right() && b.X < a.Right() {
				union(i, j)
			}
		}
	}

	// Each band is ordered by its leftmost edge; ties go to the band
	// that starts higher on the page.
	bands := make(map[int][]int)
	for i := range zones {
		root := find(i)
		bands[root] = append(bands[root], i)
	}

	type band struct {
		minX, minY int
		members    []int
	}
	ordered := make([]band, 0, len(bands))
	for _, members := range bands {
		b := band{minX: zones[members[0]].Bounds.X, minY: zones[members[0]].Bounds.Y, members: members}
		for _, m := range members[1:] {
			if zones[m].Bounds.X < b.minX {
				b.minX = zones[m].Bounds.X
			}
			if zones[m].Bounds.Y < b.minY {
				b.minY = zones[m].Bounds.Y
			}
		}
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].minX != ordered[j].minX {
			return ordered[i].minX < ordered[j].minX
		}
		return ordered[i].minY < ordered[j].minY
	})

	next := 1
	for _, b := range ordered {
		sort.Slice(b.members, func(i, j int) bool {
			zi, zj := zones[b.members[i]].Bounds, zones[b.members[j]].Bounds
			if zi.Y != zj.Y {
				return zi.Y < zj.Y
			}
			return zi.X < zj.X
		})
		for _, m := range b.members {
			zones[m].ReadingOrder = next
			next++
		}
	}
}
