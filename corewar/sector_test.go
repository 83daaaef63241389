package corewar

import "testing"

func TestSectorIntersect(t *testing.T) {
	a := Sector{Start: 0, End: 10}
	b := Sector{Start: 5, End: 15}
	got, ok := a.intersect(b)
	if !ok || got != (Sector{Start: 5, End: 10}) {
		t.Errorf("intersect = %+v, %v", got, ok)
	}

	c := Sector{Start: 20, End: 30}
	if _, ok := a.intersect(c); ok {
		t.Error("disjoint sectors should not intersect")
	}
}

func TestSectorSubtract(t *testing.T) {
	a := Sector{Start: 0, End: 10}

	// disjoint
	if got := a.subtract(Sector{Start: 20, End: 30}); len(got) != 1 || got[0] != a {
		t.Errorf("disjoint subtract = %+v", got)
	}

	// fully covered
	if got := a.subtract(Sector{Start: 0, End: 10}); len(got) != 0 {
		t.Errorf("full coverage subtract should be empty, got %+v", got)
	}

	// trims right
	if got := a.subtract(Sector{Start: 5, End: 10}); len(got) != 1 || got[0] != (Sector{0, 5}) {
		t.Errorf("right trim = %+v", got)
	}

	// trims left
	if got := a.subtract(Sector{Start: 0, End: 5}); len(got) != 1 || got[0] != (Sector{5, 10}) {
		t.Errorf("left trim = %+v", got)
	}

	// strictly interior
	got := a.subtract(Sector{Start: 3, End: 7})
	if len(got) != 2 || got[0] != (Sector{0, 3}) || got[1] != (Sector{7, 10}) {
		t.Errorf("interior subtract = %+v", got)
	}
}

func TestSectorSetMergesAdjacent(t *testing.T) {
	set := newSectorSet(Sector{Start: 0, End: 5})
	set.add(Sector{Start: 5, End: 10})
	if got := set.Sectors(); len(got) != 1 || got[0] != (Sector{0, 10}) {
		t.Errorf("adjacent sectors should merge, got %+v", got)
	}
}

func TestSectorSetDisjointnessAfterChurn(t *testing.T) {
	set := newSectorSet(Sector{Start: 0, End: 100})
	set.subtract(Sector{Start: 10, End: 20})
	set.subtract(Sector{Start: 50, End: 60})
	set.add(Sector{Start: 15, End: 55})

	sectors := set.Sectors()
	for i := 1; i < len(sectors); i++ {
		if sectors[i-1].End >= sectors[i].Start {
			t.Fatalf("sectors %+v and %+v are adjacent or overlapping", sectors[i-1], sectors[i])
		}
	}
	for _, s := range sectors {
		if !s.valid() {
			t.Fatalf("invalid sector %+v", s)
		}
	}
}

func TestSectorSetCoverage(t *testing.T) {
	const size = 64
	set := newSectorSet(Sector{Start: 0, End: size})
	set.subtract(Sector{Start: 10, End: 20})
	set.subtract(Sector{Start: 30, End: 31})

	occupied := 10 + 1
	if got := set.Len() + occupied; got != size {
		t.Errorf("free(%d) + occupied(%d) = %d, want %d", set.Len(), occupied, got, size)
	}
}
