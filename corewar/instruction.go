package corewar

import "fmt"

// Opcode identifies one of the eight Redcode operations this core
// understands. The integer value is also the 4-bit wire tag used by
// Instruction.Encode/Decode.
type Opcode int

const (
	DAT Opcode = 0
	MOV Opcode = 1
	ADD Opcode = 2
	SUB Opcode = 3
	JMP Opcode = 4
	JMZ Opcode = 5
	DJZ Opcode = 6
	CMP Opcode = 7
)

// opSpec is the per-opcode registry entry: how many textual operands it
// takes and how it executes. Mirrors a sum type over the eight variants
// with a single dispatch table instead of eight concrete types.
type opSpec struct {
	name     string
	operands int
	run      func(ins Instruction, ip int, mem *Memory) (InstructionResult, error)
}

var opTable map[Opcode]opSpec

// nameToOpcode is built from opTable at init time, the
// same way KTStephano-GVM builds instrToStrMap from strToInstrMap.
var nameToOpcode map[string]Opcode

func init() {
	opTable = map[Opcode]opSpec{
		DAT: {name: "DAT", operands: 1, run: runDAT},
		MOV: {name: "MOV", operands: 2, run: runMOV},
		ADD: {name: "ADD", operands: 2, run: runADD},
		SUB: {name: "SUB", operands: 2, run: runSUB},
		JMP: {name: "JMP", operands: 1, run: runJMP},
		JMZ: {name: "JMZ", operands: 2, run: runJMZ},
		DJZ: {name: "DJZ", operands: 2, run: runDJZ},
		CMP: {name: "CMP", operands: 2, run: runCMP},
	}

	nameToOpcode = make(map[string]Opcode, len(opTable))
	for op, spec := range opTable {
		nameToOpcode[spec.name] = op
	}
}

func (op Opcode) valid() bool {
	_, ok := opTable[op]
	return ok
}

func (op Opcode) String() string {
	if spec, ok := opTable[op]; ok {
		return spec.name
	}
	return "???"
}

// operandCount returns the number of textual operands the opcode
// expects: 1 for DAT/JMP, 2 for everything else.
func (op Opcode) operandCount() int {
	return opTable[op].operands
}

// opcodeByName looks up an opcode by its (already-uppercased) mnemonic.
func opcodeByName(name string) (Opcode, bool) {
	op, ok := nameToOpcode[name]
	return op, ok
}

// Instruction is a decoded Redcode instruction: one of DAT, MOV, ADD,
// SUB, JMP, JMZ, DJZ, CMP, carrying two signed 12-bit operands and their
// addressing modes.
type Instruction struct {
	Op    Opcode
	ModeA Mode
	A     int
	ModeB Mode
	B     int
}

// normalize12 folds n into the signed 12-bit range [-2048, 2047] the way
// two's-complement truncation would: take n mod 4096, then re-center.
func normalize12(n int) int {
	n %= 4096
	if n < 0 {
		n += 4096
	}
	if n >= 2048 {
		n -= 4096
	}
	return n
}

// NewInstruction builds a two-operand instruction, normalizing both
// fields to signed 12-bit. Use NewInstruction1 for DAT/JMP's one-operand
// shorthand (mode_a/ a default to Immediate/0).
func NewInstruction(op Opcode, modeA Mode, a int, modeB Mode, b int) Instruction {
	return Instruction{Op: op, ModeA: modeA, A: normalize12(a), ModeB: modeB, B: normalize12(b)}
}

// NewInstruction1 builds the one-operand shorthand for DAT/JMP: the sole
// operand becomes (mode_b, b); (mode_a, a) default to (Immediate, 0).
func NewInstruction1(op Opcode, mode Mode, value int) Instruction {
	return Instruction{Op: op, ModeA: Immediate, A: 0, ModeB: mode, B: normalize12(value)}
}

// Encode packs the instruction into its normative 32-bit wire form:
// opcode(4) | mode_a(2) | mode_b(2) | a(12, two's complement) | b(12).
func (ins Instruction) Encode() uint32 {
	a12 := uint32(ins.A) & 0xFFF
	b12 := uint32(ins.B) & 0xFFF
	return uint32(ins.Op)<<28 | uint32(ins.ModeA)<<26 | uint32(ins.ModeB)<<24 | a12<<12 | b12
}

// DecodeInstruction unpacks a 32-bit wire value into an Instruction,
// failing if the opcode nibble or either mode pair is not recognized.
func DecodeInstruction(x uint32) (Instruction, error) {
	op := Opcode((x >> 28) & 0xF)
	modeA := Mode((x >> 26) & 0x3)
	modeB := Mode((x >> 24) & 0x3)
	aBits := (x >> 12) & 0xFFF
	bBits := x & 0xFFF

	if !op.valid() {
		return Instruction{}, fmt.Errorf("%w: %d", errBadOpcode, op)
	}
	if !modeA.valid() {
		return Instruction{}, fmt.Errorf("%w: %d", errBadModeA, modeA)
	}
	if !modeB.valid() {
		return Instruction{}, fmt.Errorf("%w: %d", errBadModeB, modeB)
	}

	return Instruction{
		Op:    op,
		ModeA: modeA,
		A:     signExtend12(aBits),
		ModeB: modeB,
		B:     signExtend12(bBits),
	}, nil
}

func signExtend12(bits uint32) int {
	v := int(bits & 0xFFF)
	if v >= 2048 {
		v -= 4096
	}
	return v
}

// String renders the canonical textual form: "OPCODE <mode_a><a>, <mode_b><b>".
func (ins Instruction) String() string {
	return fmt.Sprintf("%s %s%d, %s%d", ins.Op, ins.ModeA, ins.A, ins.ModeB, ins.B)
}

// InstructionResult records the effect of one Instruction.Run call: the
// process's next ip, and, when the instruction wrote a cell, which index
// and with what value.
type InstructionResult struct {
	NewIP    int
	Wrote    bool
	MemIndex int
	MemValue int
}

// Run executes the instruction against mem with the process currently at
// ip, dispatching to the opcode's registered run function.
func (ins Instruction) Run(ip int, mem *Memory) (InstructionResult, error) {
	spec, ok := opTable[ins.Op]
	if !ok {
		return InstructionResult{}, fmt.Errorf("%w: %d", errBadOpcode, ins.Op)
	}
	return spec.run(ins, ip, mem)
}

func runDAT(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	return InstructionResult{}, errDatTrap
}

func runMOV(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	v, err := mem.value(ins.ModeA, ins.A, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	addr, err := mem.address(ins.ModeB, ins.B, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	mem.Set(addr, v)
	return InstructionResult{NewIP: mem.wrap(ip + 1), Wrote: true, MemIndex: addr, MemValue: v}, nil
}

func runADD(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	va, err := mem.value(ins.ModeA, ins.A, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	addr, err := mem.address(ins.ModeB, ins.B, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	vb, err := mem.value(ins.ModeB, ins.B, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	sum := va + vb
	mem.Set(addr, sum)
	return InstructionResult{NewIP: mem.wrap(ip + 1), Wrote: true, MemIndex: addr, MemValue: sum}, nil
}

func runSUB(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	va, err := mem.value(ins.ModeA, ins.A, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	addr, err := mem.address(ins.ModeB, ins.B, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	vb, err := mem.value(ins.ModeB, ins.B, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	diff := vb - va
	mem.Set(addr, diff)
	return InstructionResult{NewIP: mem.wrap(ip + 1), Wrote: true, MemIndex: addr, MemValue: diff}, nil
}

func runJMP(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	addr, err := mem.address(ins.ModeB, ins.B, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	return InstructionResult{NewIP: addr}, nil
}

func runJMZ(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	va, err := mem.value(ins.ModeA, ins.A, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	if va == 0 {
		vb, err := mem.value(ins.ModeB, ins.B, ip)
		if err != nil {
			return InstructionResult{}, err
		}
		return InstructionResult{NewIP: mem.wrap(vb)}, nil
	}
	return InstructionResult{NewIP: mem.wrap(ip + 1)}, nil
}

func runDJZ(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	va, err := mem.value(ins.ModeA, ins.A, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	addrA, err := mem.address(ins.ModeA, ins.A, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	result := va - 1
	mem.Set(addrA, result)

	if result == 0 {
		vb, err := mem.value(ins.ModeB, ins.B, ip)
		if err != nil {
			return InstructionResult{}, err
		}
		return InstructionResult{NewIP: mem.wrap(vb), Wrote: true, MemIndex: addrA, MemValue: result}, nil
	}
	return InstructionResult{NewIP: mem.wrap(ip + 1), Wrote: true, MemIndex: addrA, MemValue: result}, nil
}

func runCMP(ins Instruction, ip int, mem *Memory) (InstructionResult, error) {
	va, err := mem.value(ins.ModeA, ins.A, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	vb, err := mem.value(ins.ModeB, ins.B, ip)
	if err != nil {
		return InstructionResult{}, err
	}
	if va == vb {
		return InstructionResult{NewIP: mem.wrap(ip + 2)}, nil
	}
	return InstructionResult{NewIP: mem.wrap(ip + 1)}, nil
}
