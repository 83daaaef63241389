package corewar

import "testing"

func TestImpFillsEveryCell(t *testing.T) {
	m := New(5, true)
	if err := m.LoadCode("MOV 0, 1", "imp"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		m.Round()
	}

	want := NewInstruction(MOV, Relative, 0, Relative, 1)
	for i := 0; i < m.Memory.Len(); i++ {
		got, err := m.Memory.Decode(i)
		if err != nil || got != want {
			t.Errorf("cell %d = %+v (err %v), want %+v", i, got, err, want)
		}
	}
}

func TestJMPRelativeWritesThroughNegativeOffset(t *testing.T) {
	m := New(4, true)
	src := "JMP 2\nDAT #0\nMOV #2, -1\nJMP -3\n"
	if err := m.LoadCode(src, "w"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		m.Round()
	}

	decoded, err := m.Memory.Decode(1)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Op != DAT || decoded.B != 2 {
		t.Errorf("cell 1 = %+v, want DAT with b=2", decoded)
	}
}

func TestIndirectAddressingWritesThroughPointer(t *testing.T) {
	m := New(3, true)
	src := "MOV #2, 5\nMOV #8, @1\nDAT #0\n"
	if err := m.LoadCode(src, "w"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		m.Round()
	}

	decoded, err := m.Memory.Decode(1)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Op != DAT || decoded.B != 8 {
		t.Errorf("cell 1 = %+v, want DAT with b=8", decoded)
	}
}

func TestDwarfBombsEveryFourthCell(t *testing.T) {
	m := New(128, true)
	src := "ADD #4, -1\nMOV #0, @-2\nJMP -2\n"
	if err := m.LoadCode(src, "dwarf"); err != nil {
		t.Fatal(err)
	}

	cs := m.Processes[0].CodeStart
	for i := 0; i < 9; i++ { // 3 full ADD/MOV/JMP loops
		m.Round()
	}

	for _, offset := range []int{3, 7, 11} {
		idx := m.Memory.wrap(cs + offset)
		if got := m.Memory.Raw(idx); got != 0 {
			t.Errorf("cell %d (cs+%d) = %d, want 0", idx, offset, got)
		}
	}
}

func TestHaltingTwoWarriorsMutualDestruction(t *testing.T) {
	m := New(16, false)
	if err := m.LoadCode("DAT #0", "a"); err != nil {
		t.Fatal(err)
	}
	if err := m.LoadCode("DAT #0", "b"); err != nil {
		t.Fatal(err)
	}

	if m.Halted() {
		t.Fatal("machine should not be halted before any ticks")
	}
	m.Round()
	if !m.Halted() {
		t.Fatal("both processes executing DAT should halt the machine")
	}
	if _, ok := m.Winner(); ok {
		t.Error("mutual destruction should have no winner")
	}

	// Round is a no-op once halted.
	historyLen := len(m.History)
	m.Round()
	if len(m.History) != historyLen {
		t.Error("Round() after halt should not append to history")
	}
}

func TestHaltingOneSurvivor(t *testing.T) {
	m := New(16, false)
	if err := m.LoadCode("JMP 0", "survivor"); err != nil {
		t.Fatal(err)
	}
	if err := m.LoadCode("DAT #0", "victim"); err != nil {
		t.Fatal(err)
	}

	m.Round()
	if !m.Halted() {
		t.Fatal("one process dying should halt with a single survivor")
	}
	winner, ok := m.Winner()
	if !ok || winner != 0 {
		t.Errorf("winner = %d, %v, want pid 0", winner, ok)
	}
}

func TestRunIsOneShot(t *testing.T) {
	m := New(16, false)
	_ = m.LoadCode("DAT #0", "a")
	_ = m.LoadCode("DAT #0", "b")

	if err := m.Run(100); err != nil {
		t.Fatal(err)
	}
	if err := m.Run(100); err != errMachineAlreadyRun {
		t.Errorf("second Run should fail with errMachineAlreadyRun, got %v", err)
	}
}

func TestLoadCodeAggregatesParseErrors(t *testing.T) {
	m := New(16, false)
	err := m.LoadCode("FOO 0, 1\nMOV 0", "bad")
	if err == nil {
		t.Fatal("expected aggregated parse error")
	}
	errs, ok := err.(ParseErrors)
	if !ok {
		t.Fatalf("expected ParseErrors, got %T", err)
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 aggregated errors, got %d", len(errs))
	}
	if len(m.Processes) != 0 {
		t.Error("a rejected warrior must not spawn a process")
	}
}

func TestLoadCodeOutOfMemory(t *testing.T) {
	m := New(2, false)
	limit := 8
	m.MaxProgramSize = &limit
	err := m.LoadCode("DAT #0\nDAT #0\nDAT #0\n", "too-big")
	if err != errOutOfMemory {
		t.Errorf("expected errOutOfMemory, got %v", err)
	}
}

func TestResetPreservesConfig(t *testing.T) {
	m := New(32, true)
	_ = m.LoadCode("DAT #0", "a")
	m.Round()

	m.Reset()
	if m.MemorySize != 32 || !m.AllowSingleProcess {
		t.Error("Reset should preserve size and AllowSingleProcess")
	}
	if len(m.Processes) != 0 || m.Ticks != 0 || len(m.History) != 0 || m.StartState != nil {
		t.Error("Reset should clear processes, ticks, history, and start state")
	}
	if m.Memory.FreeLen() != 32 {
		t.Error("Reset should give back an all-free memory")
	}
}

func TestDeterminismGivenIdenticalLoad(t *testing.T) {
	src := "ADD #4, -1\nMOV #0, @-2\nJMP -2\n"

	run := func() (*Memory, []*Diff) {
		mem := newMemoryWithSource(64, fixedSource(7))
		m := &Machine{AllowSingleProcess: true, MemorySize: 64, Memory: mem, StartMap: make([]*int, 64)}
		limit := DefaultMaxProgramSize
		m.MaxProgramSize = &limit
		if err := m.LoadCode(src, "dwarf"); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 20; i++ {
			m.Round()
		}
		return m.Memory, m.History
	}

	mem1, hist1 := run()
	mem2, hist2 := run()

	if len(hist1) != len(hist2) {
		t.Fatalf("history lengths differ: %d vs %d", len(hist1), len(hist2))
	}
	for i := range hist1 {
		if (hist1[i] == nil) != (hist2[i] == nil) {
			t.Fatalf("history[%d] nil-ness differs", i)
		}
		if hist1[i] != nil && *hist1[i] != *hist2[i] {
			t.Fatalf("history[%d] differs: %+v vs %+v", i, hist1[i], hist2[i])
		}
	}
	for i := 0; i < mem1.Len(); i++ {
		if mem1.Raw(i) != mem2.Raw(i) {
			t.Fatalf("memory cell %d differs: %d vs %d", i, mem1.Raw(i), mem2.Raw(i))
		}
	}
}

func TestMachineSnapshotIsIndependent(t *testing.T) {
	m := New(16, true)
	if err := m.LoadCode("MOV 0, 1", "imp"); err != nil {
		t.Fatal(err)
	}
	if err := m.Run(3); err != nil {
		t.Fatal(err)
	}
	if m.StartState == nil {
		t.Fatal("Run should populate StartState")
	}

	before := m.StartState.Memory.Raw(m.Processes[0].CodeStart)
	m.Memory.Set(m.Processes[0].CodeStart, before+12345)
	if after := m.StartState.Memory.Raw(m.Processes[0].CodeStart); after != before {
		t.Error("mutating the live machine's memory must not affect StartState")
	}
}
