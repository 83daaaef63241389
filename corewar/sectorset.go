package corewar

import "sort"

// SectorSet is a sorted, merged collection of disjoint Sectors, used by
// Memory to track which cells are still free. Invariants: sorted by
// Start; no two stored sectors touch or overlap (adjacent/overlapping
// sectors are merged on every mutation).
type SectorSet struct {
	sectors []Sector
}

// newSectorSet returns a SectorSet containing exactly the given sector.
func newSectorSet(s Sector) *SectorSet {
	set := &SectorSet{}
	set.add(s)
	return set
}

// Sectors returns the current sorted, disjoint sector list. Callers must
// not mutate the returned slice.
func (set *SectorSet) Sectors() []Sector {
	return set.sectors
}

// Len returns the total number of free cells across all stored sectors.
func (set *SectorSet) Len() int {
	total := 0
	for _, s := range set.sectors {
		total += s.Len()
	}
	return total
}

// add unions s into the set, merging with any touching or overlapping
// stored sectors.
func (set *SectorSet) add(s Sector) {
	if !s.valid() {
		return
	}
	set.sectors = append(set.sectors, s)
	set.normalize()
}

// subtract carves sector out of every stored sector that intersects it.
func (set *SectorSet) subtract(cut Sector) {
	if !cut.valid() {
		return
	}
	next := make([]Sector, 0, len(set.sectors))
	for _, s := range set.sectors {
		if _, overlaps := s.intersect(cut); !overlaps {
			next = append(next, s)
			continue
		}
		next = append(next, s.subtract(cut)...)
	}
	set.sectors = next
	set.normalize()
}

// clone returns a deep copy of the set, used by Machine's start-state
// snapshot so it shares no storage with the live machine.
func (set *SectorSet) clone() *SectorSet {
	return &SectorSet{sectors: append([]Sector(nil), set.sectors...)}
}

// sectorsOfSize returns every stored sector whose length is at least
// min, in sorted order.
func (set *SectorSet) sectorsOfSize(min int) []Sector {
	var out []Sector
	for _, s := range set.sectors {
		if s.Len() >= min {
			out = append(out, s)
		}
	}
	return out
}

// normalize sorts the sector list and repeatedly merges any pair of
// sectors (i, i+1) where sectors[i].End >= sectors[i+1].Start, taking
// the max of the two ends, until the list is stable.
func (set *SectorSet) normalize() {
	sort.Slice(set.sectors, func(i, j int) bool {
		return set.sectors[i].less(set.sectors[j])
	})

	merged := set.sectors[:0:0]
	for _, s := range set.sectors {
		if len(merged) == 0 {
			merged = append(merged, s)
			continue
		}
		last := &merged[len(merged)-1]
		if last.End >= s.Start {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	set.sectors = merged
}
