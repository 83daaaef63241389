package corewar

import "fmt"

// Disassemble renders cells [start, end) (wrapped modulo mem.Len()) as one
// line per cell: absolute index, raw integer, and its Instruction decoding.
// A cell that fails to decode still gets a line, showing the decode error
// in place of an instruction. Used by the REPL's dump command.
func Disassemble(mem *Memory, start, end int) []string {
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		idx := mem.wrap(i)
		raw := mem.Raw(idx)
		ins, err := mem.Decode(idx)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%6d: %11d  <%v>", idx, raw, err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%6d: %11d  %s", idx, raw, ins))
	}
	return lines
}
