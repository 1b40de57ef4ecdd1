package main

import (
	"fmt"
	"os"

	"github.com/kolkov/crashtrace/internal/crash/modpath"
	"github.com/kolkov/crashtrace/internal/crash/report"
)

// traceCommand prints a backtrace of the tool itself to stderr.
//
// When the tool runs inside a Go module, frames belonging to that
// module are marked with '*' so the host program's own frames stand out
// among runtime and library frames.
func traceCommand(args []string) {
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "trace takes no arguments\n")
		os.Exit(1)
	}

	var opts report.Options
	if path, err := modpath.FindFromWorkingDir(); err == nil {
		opts.ModulePath = path
		fmt.Printf("marking frames of module %s with '*'\n", path)
	}

	depth := opts.Fprint(os.Stderr)
	fmt.Printf("walked %d frames\n", depth)
}
