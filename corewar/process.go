package corewar

// Diff is the immutable record of one successful tick's effect on
// memory, consumed by Machine's history buffer.
type Diff struct {
	Pid           int
	IPAfter       int
	WrittenIndex  int
	WrittenValue  string
	Wrote         bool
}

// Process is one warrior's execution state: instruction pointer,
// liveness, and a death reason once it has crashed. PIDs are dense
// integers assigned by the owning Machine, not by the process itself.
type Process struct {
	Pid       int
	ParentPid *int
	Name      string
	CodeStart int
	IP        int
	Alive     bool
	Reason    error

	mem *Memory
}

// newProcess creates a Process born alive at codeStart.
func newProcess(pid int, name string, codeStart int, mem *Memory) *Process {
	return &Process{
		Pid:       pid,
		Name:      name,
		CodeStart: codeStart,
		IP:        codeStart,
		Alive:     true,
		mem:       mem,
	}
}

// tick executes exactly one instruction for the process and returns the
// resulting Diff, or nil if the process was already dead or died this
// step. An instruction that wrote no cell still yields a Diff, with
// Wrote false. A runtime error (bad opcode/mode, or DAT) never
// propagates out of tick: it kills the process in place and is recorded
// in Reason.
func (p *Process) tick() *Diff {
	if !p.Alive {
		return nil
	}

	ins, err := p.mem.Decode(p.IP)
	if err != nil {
		p.Alive = false
		p.Reason = err
		return nil
	}

	result, err := ins.Run(p.IP, p.mem)
	if err != nil {
		p.Alive = false
		p.Reason = err
		return nil
	}

	p.IP = p.mem.wrap(result.NewIP)

	diff := &Diff{Pid: p.Pid, IPAfter: p.IP}
	if result.Wrote {
		diff.Wrote = true
		diff.WrittenIndex = result.MemIndex
		if decoded, derr := p.mem.Decode(result.MemIndex); derr == nil {
			diff.WrittenValue = decoded.String()
		} else {
			diff.WrittenValue = "???"
		}
	}
	return diff
}
