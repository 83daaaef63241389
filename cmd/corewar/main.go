package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"corewar/corewar"
	"corewar/corewar/repl"
)

func main() {
	optMemory := getopt.IntLong("memory", 'm', corewar.DefaultMemorySize, "Core size in cells")
	optTicks := getopt.IntLong("ticks", 't', corewar.DefaultMaxTicks, "Maximum ticks before a draw")
	optSingle := getopt.BoolLong("single", 's', "Allow a single warrior to run alone instead of exiting immediately")
	optInteractive := getopt.BoolLong("interactive", 'i', "Drop into the step debugger instead of running to completion")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("warrior1.rc [warrior2.rc ...]")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	warriors := getopt.Args()
	if len(warriors) == 0 {
		fmt.Fprintln(os.Stderr, "corewar: at least one warrior file is required")
		getopt.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	m := corewar.New(*optMemory, *optSingle)
	m.Logger = logger

	for _, path := range warriors {
		name := warriorName(path)
		if err := m.LoadFile(path, name); err != nil {
			fmt.Fprintf(os.Stderr, "corewar: loading %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	if *optInteractive {
		repl.Run(m, *optTicks)
		return
	}

	if err := m.Run(*optTicks); err != nil {
		fmt.Fprintf(os.Stderr, "corewar: %v\n", err)
		os.Exit(1)
	}

	report(m)
}

func report(m *corewar.Machine) {
	fmt.Printf("ticks: %d\n", m.Ticks)
	if pid, ok := m.Winner(); ok {
		for _, p := range m.Processes {
			if p.Pid == pid {
				fmt.Printf("winner: %s (pid %d)\n", p.Name, pid)
				return
			}
		}
	}
	fmt.Println("result: draw")
}

// warriorName derives a display name from a warrior's file path, stripping
// any directory prefix and .rc suffix.
func warriorName(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' || base[i] == '\\' {
			base = base[i+1:]
			break
		}
	}
	const suffix = ".rc"
	if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
		base = base[:len(base)-len(suffix)]
	}
	return base
}
