package corewar

// Mode is the addressing mode of one instruction operand. The wire tag
// is the value stored in the two mode bits of an encoded instruction
// (see Instruction.Encode).
type Mode int

const (
	Immediate Mode = 0 // "#": operand value literally
	Relative  Mode = 1 // no prefix: operand is an offset from ip
	Indirect  Mode = 2 // "@": operand is an offset to a pointer cell
)

func (m Mode) valid() bool {
	return m == Immediate || m == Relative || m == Indirect
}

// String renders the mode's textual prefix, empty for Relative.
func (m Mode) String() string {
	switch m {
	case Immediate:
		return "#"
	case Indirect:
		return "@"
	default:
		return ""
	}
}
