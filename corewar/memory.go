package corewar

import "fmt"

// Memory is the shared circular core every warrior executes in. Cells
// are stored as raw 32-bit words and decoded into Instructions lazily
// on read, so that a cell written by ADD/MOV/SUB (a plain integer) and
// a cell placed by the loader (an encoded Instruction) are
// indistinguishable to a reader, each just an Instruction-shaped value
// whose 32-bit projection equals the cell's current integer.
type Memory struct {
	cells  []int32
	free   *SectorSet
	source Source
}

// NewMemory builds an all-free Memory of the given size. A size below 1
// is raised to 1.
func NewMemory(size int) *Memory {
	return newMemoryWithSource(size, defaultSource)
}

// newMemoryWithSource builds a Memory using an explicit entropy Source,
// so tests can make allocation deterministic.
func newMemoryWithSource(size int, src Source) *Memory {
	if size < 1 {
		size = 1
	}
	return &Memory{
		cells:  make([]int32, size),
		free:   newSectorSet(Sector{Start: 0, End: size}),
		source: src,
	}
}

// Len returns the number of cells in the core.
func (m *Memory) Len() int {
	return len(m.cells)
}

// wrap folds any integer index into [0, Len()), so access never faults
// out of range: the core is circular.
func (m *Memory) wrap(i int) int {
	n := len(m.cells)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Raw returns the raw 32-bit integer stored at index i (mod Len()).
func (m *Memory) Raw(i int) int {
	return int(m.cells[m.wrap(i)])
}

// Decode reads the cell at i and decodes it as an Instruction.
func (m *Memory) Decode(i int) (Instruction, error) {
	return DecodeInstruction(uint32(m.cells[m.wrap(i)]))
}

// writeCellRaw mutates a single cell without touching the free set. Used
// internally by Allocate(override=true), which must not consult or
// update free regions at all.
func (m *Memory) writeCellRaw(i int, v int) {
	m.cells[m.wrap(i)] = int32(v)
}

// Set writes a raw integer value to cell i and carves the single-cell
// sector [i, i+1) out of the free set: every direct write is treated as
// occupancy.
func (m *Memory) Set(i int, v int) {
	idx := m.wrap(i)
	m.writeCellRaw(idx, v)
	m.free.subtract(Sector{Start: idx, End: idx + 1})
}

// SetInstruction encodes ins and writes it to cell i via Set.
func (m *Memory) SetInstruction(i int, ins Instruction) {
	m.Set(i, int(int32(ins.Encode())))
}

// FreeSectors returns the current sorted, disjoint free regions.
func (m *Memory) FreeSectors() []Sector {
	return m.free.Sectors()
}

// FreeLen returns the total number of free cells.
func (m *Memory) FreeLen() int {
	return m.free.Len()
}

// address resolves the target cell index for (mode, value) relative to
// ip. Immediate has no address and fails with errBadMode.
func (m *Memory) address(mode Mode, value int, ip int) (int, error) {
	switch mode {
	case Relative:
		return m.wrap(ip + value), nil
	case Indirect:
		p := m.wrap(ip + value)
		return m.wrap(p + m.Raw(p)), nil
	default:
		return 0, fmt.Errorf("%w: mode %v", errBadMode, mode)
	}
}

// value resolves the operand value for (mode, value) relative to ip.
func (m *Memory) value(mode Mode, value int, ip int) (int, error) {
	if mode == Immediate {
		return value, nil
	}
	addr, err := m.address(mode, value, ip)
	if err != nil {
		return 0, err
	}
	return m.Raw(addr), nil
}

// Allocate places code into the core and returns the absolute start
// index.
//
// override=true is the test/helper path: pick a uniformly random start
// in [0, Len()-len(code)], overwrite those cells directly, and never
// consult or update the free set.
//
// override=false is the battle path: enumerate free sectors of size >=
// len(code), fail with errOutOfMemory if none exist, pick one uniformly
// at random, pick a random offset inside it so the code fits, write the
// code, and subtract the occupied sub-sector from the free set.
func (m *Memory) Allocate(code []Instruction, override bool) (int, error) {
	n := len(code)
	if n > m.Len() {
		return 0, errOutOfMemory
	}
	if n == 0 {
		return 0, nil
	}

	if override {
		start := m.source.Intn(m.Len()-n+1)
		for i, ins := range code {
			m.writeCellRaw(start+i, int(int32(ins.Encode())))
		}
		return start, nil
	}

	candidates := m.free.sectorsOfSize(n)
	if len(candidates) == 0 {
		return 0, errOutOfMemory
	}

	sector := candidates[m.source.Intn(len(candidates))]
	offsetRange := sector.Len() - n + 1
	offset := m.source.Intn(offsetRange)
	start := sector.Start + offset

	for i, ins := range code {
		m.writeCellRaw(start+i, int(int32(ins.Encode())))
	}
	m.free.subtract(Sector{Start: start, End: start + n})

	return start, nil
}
