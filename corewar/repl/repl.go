// Package repl implements the interactive step debugger the CLI drops
// into under -i/--interactive: step/break/dump/ps over a loaded Machine,
// in the spirit of KTStephano-GVM's RunProgramDebugMode and
// rcornwell-S370's liner-based ConsoleReader.
package repl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"corewar/corewar"
)

var commands = []string{"step", "n", "run", "break", "dump", "ps", "quit", "help"}

// Run drives the interactive loop against m until the user quits (quit,
// Ctrl-C, or a read error). Once the machine halts or the tick budget is
// exhausted, step and run no longer advance it, but the other commands
// stay available.
func Run(m *corewar.Machine, maxTicks int) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var out []string
		for _, c := range commands {
			if strings.HasPrefix(c, partial) {
				out = append(out, c)
			}
		}
		return out
	})

	fmt.Println("Commands: step (n), run, break <pid>, dump <start> <end>, ps, quit")
	printState(m)

	breakpoints := make(map[int]bool)

	for {
		command, err := line.Prompt("corewar> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Println("error reading line:", err)
			return
		}
		line.AppendHistory(command)

		toks := strings.Fields(command)
		if len(toks) == 0 {
			continue
		}

		switch toks[0] {
		case "step", "n":
			if m.Ticks >= maxTicks || m.Halted() {
				fmt.Println("machine halted")
				continue
			}
			m.Round()
			printState(m)

		case "run":
			for m.Ticks < maxTicks && !m.Halted() {
				m.Round()
				if hitBreakpoint(m, breakpoints) {
					fmt.Println("breakpoint")
					break
				}
			}
			printState(m)

		case "break":
			if len(toks) != 2 {
				fmt.Println("usage: break <pid>")
				continue
			}
			pid, err := strconv.Atoi(toks[1])
			if err != nil {
				fmt.Println("bad pid:", err)
				continue
			}
			breakpoints[pid] = !breakpoints[pid]
			if breakpoints[pid] {
				fmt.Printf("breakpoint set on pid %d\n", pid)
			} else {
				fmt.Printf("breakpoint cleared on pid %d\n", pid)
			}

		case "dump":
			if len(toks) != 3 {
				fmt.Println("usage: dump <start> <end>")
				continue
			}
			start, err1 := strconv.Atoi(toks[1])
			end, err2 := strconv.Atoi(toks[2])
			if err1 != nil || err2 != nil || end <= start {
				fmt.Println("usage: dump <start> <end>, start < end")
				continue
			}
			for _, l := range corewar.Disassemble(m.Memory, start, end) {
				fmt.Println(l)
			}

		case "ps":
			printProcesses(m)

		case "quit", "q":
			return

		case "help":
			fmt.Println("Commands: step (n), run, break <pid>, dump <start> <end>, ps, quit")

		default:
			fmt.Println("unknown command:", toks[0])
		}

		if m.Halted() {
			fmt.Println("machine halted")
		}
	}
}

// hitBreakpoint reports whether a breakpointed pid completed a tick in the
// round just run, i.e. whether one of that round's Diffs belongs to it.
// A process that died during the round records no Diff and so does not
// trigger its breakpoint.
func hitBreakpoint(m *corewar.Machine, breakpoints map[int]bool) bool {
	n := len(m.Processes)
	if n > len(m.History) {
		n = len(m.History)
	}
	for _, d := range m.History[len(m.History)-n:] {
		if d != nil && breakpoints[d.Pid] {
			return true
		}
	}
	return false
}

func printState(m *corewar.Machine) {
	fmt.Printf("ticks=%d alive=%d\n", m.Ticks, aliveCount(m))
	printProcesses(m)
}

func printProcesses(m *corewar.Machine) {
	for _, p := range m.Processes {
		status := "dead"
		if p.Alive {
			status = "alive"
		}
		fmt.Printf("  pid=%d name=%-12s ip=%-6d status=%s\n", p.Pid, p.Name, p.IP, status)
	}
}

func aliveCount(m *corewar.Machine) int {
	n := 0
	for _, p := range m.Processes {
		if p.Alive {
			n++
		}
	}
	return n
}
