package corewar

import (
	"log/slog"
	"os"
)

// Machine owns the shared Memory, the warriors loaded into it, and the
// round-robin scheduler that steps them. It is the only surface
// external collaborators (an HTTP front end, the CLI in cmd/corewar,
// the REPL in corewar/repl) are meant to depend on.
type Machine struct {
	Memory             *Memory
	Processes          []*Process
	StartState         *Machine
	StartMap           []*int
	History            []*Diff
	Ticks              int
	AllowSingleProcess bool
	MemorySize         int

	// MaxProgramSize caps instructions per warrior; nil disables the
	// check.
	MaxProgramSize *int

	// Logger receives one record per load, per halt transition, and
	// per process death. Defaults to slog.Default() when nil.
	Logger *slog.Logger

	nextPid int
}

// New builds a Machine with an empty, all-free Memory of the given size.
func New(memorySize int, allowSingleProcess bool) *Machine {
	limit := DefaultMaxProgramSize
	m := &Machine{
		AllowSingleProcess: allowSingleProcess,
		MemorySize:         memorySize,
		MaxProgramSize:     &limit,
	}
	m.Memory = NewMemory(memorySize)
	m.StartMap = make([]*int, memorySize)
	return m
}

func (m *Machine) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// LoadCode validates, parses, and spawns a warrior from Redcode source.
// A submission with syntax errors is rejected with its full ParseErrors
// list rather than just the first diagnostic.
func (m *Machine) LoadCode(text, playerName string) error {
	if errs := NewValidator().Validate(text); len(errs) > 0 {
		return errs
	}

	parser := &Parser{InstructionLimit: m.MaxProgramSize}
	program, err := parser.Parse(text)
	if err != nil {
		return err
	}

	return m.spawnProcess(program, playerName)
}

// LoadFile reads path and loads it as a warrior.
func (m *Machine) LoadFile(path, playerName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadCode(string(data), playerName)
}

// spawnProcess allocates a random free sector for program, records
// ownership in StartMap, and appends the new Process.
func (m *Machine) spawnProcess(program []Instruction, name string) error {
	start, err := m.Memory.Allocate(program, false)
	if err != nil {
		return err
	}

	pid := m.nextPid
	m.nextPid++

	proc := newProcess(pid, name, start, m.Memory)
	m.Processes = append(m.Processes, proc)

	for i := 0; i < len(program); i++ {
		idx := m.Memory.wrap(start + i)
		owner := pid
		m.StartMap[idx] = &owner
	}

	m.logger().Info("warrior loaded", "pid", pid, "name", name, "start", start, "size", len(program))
	return nil
}

// aliveCount returns how many processes are currently alive.
func (m *Machine) aliveCount() int {
	n := 0
	for _, p := range m.Processes {
		if p.Alive {
			n++
		}
	}
	return n
}

// halted reports the machine's halting condition: with AllowSingleProcess,
// halted iff no process is alive; otherwise halted iff fewer than two are
// (one survivor, or mutual destruction).
func (m *Machine) halted() bool {
	alive := m.aliveCount()
	if m.AllowSingleProcess {
		return alive == 0
	}
	return alive < 2
}

// Halted reports whether the machine has reached its halting condition.
func (m *Machine) Halted() bool {
	return m.halted()
}

// Round runs one tick per living process, in insertion order, appending
// each resulting Diff (nil for a process that was already dead or died
// this step) to History. A no-op once Halted.
func (m *Machine) Round() {
	if m.halted() {
		return
	}

	for _, p := range m.Processes {
		wasAlive := p.Alive
		diff := p.tick()
		m.History = append(m.History, diff)
		m.Ticks++

		if wasAlive && !p.Alive {
			m.logger().Debug("process died", "pid", p.Pid, "name", p.Name, "reason", p.Reason)
		}
	}

	if m.halted() {
		m.logger().Info("battle halted", "ticks", m.Ticks, "alive", m.aliveCount())
	}
}

// Run runs rounds until the machine halts or ticks exceeds maxTicks. It
// may be called exactly once per Machine; calling it again after any
// round has executed fails with errMachineAlreadyRun. The first call
// snapshots StartState before taking a single round.
func (m *Machine) Run(maxTicks int) error {
	if m.Ticks > 0 {
		return errMachineAlreadyRun
	}
	if m.StartState == nil {
		m.StartState = m.snapshot()
	}

	for m.Ticks <= maxTicks && !m.halted() {
		m.Round()
	}
	return nil
}

// Winner returns the sole surviving process's PID, and false if zero or
// more than one process remains alive.
func (m *Machine) Winner() (int, bool) {
	var survivor *Process
	count := 0
	for _, p := range m.Processes {
		if p.Alive {
			survivor = p
			count++
		}
	}
	if count == 1 {
		return survivor.Pid, true
	}
	return 0, false
}

// Reset re-initializes memory, processes, history, and ticks, preserving
// MemorySize and AllowSingleProcess.
func (m *Machine) Reset() {
	m.Memory = NewMemory(m.MemorySize)
	m.Processes = nil
	m.History = nil
	m.Ticks = 0
	m.StartState = nil
	m.StartMap = make([]*int, m.MemorySize)
	m.nextPid = 0
}

// snapshot returns a structural deep copy of the machine: cloned memory
// cells and free sectors, cloned processes pointed at the clone's own
// Memory, and a cloned StartMap. No storage is shared with the live
// machine.
func (m *Machine) snapshot() *Machine {
	clonedMem := &Memory{
		cells:  append([]int32(nil), m.Memory.cells...),
		free:   m.Memory.free.clone(),
		source: m.Memory.source,
	}

	clonedProcesses := make([]*Process, len(m.Processes))
	for i, p := range m.Processes {
		cp := *p
		cp.mem = clonedMem
		clonedProcesses[i] = &cp
	}

	clonedStartMap := make([]*int, len(m.StartMap))
	for i, owner := range m.StartMap {
		if owner != nil {
			v := *owner
			clonedStartMap[i] = &v
		}
	}

	var clonedLimit *int
	if m.MaxProgramSize != nil {
		v := *m.MaxProgramSize
		clonedLimit = &v
	}

	return &Machine{
		Memory:             clonedMem,
		Processes:          clonedProcesses,
		StartMap:           clonedStartMap,
		AllowSingleProcess: m.AllowSingleProcess,
		MemorySize:         m.MemorySize,
		MaxProgramSize:     clonedLimit,
	}
}
