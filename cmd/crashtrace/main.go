// Package main implements the crashtrace CLI tool.
//
// The tool exercises the crash diagnostics runtime from the command
// line, which is useful both as a demo and as a quick way to verify
// what the runtime can resolve on a given machine:
//
//	crashtrace trace          # print a backtrace of the tool itself
//	crashtrace crash segv     # install handlers, then die by SIGSEGV
//	crashtrace crash ill      # ... or SIGILL
//	crashtrace crash fpe      # ... or SIGFPE
//
// This is the CLI entry point; the reusable runtime lives in the
// backtrace package.
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/crashtrace/backtrace"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "trace":
		traceCommand(os.Args[2:])
	case "crash":
		crashCommand(os.Args[2:])
	case "version", "--version", "-v":
		info := backtrace.GetInfo()
		fmt.Printf("crashtrace version %s (max depth %d, frame pointers: %v)\n",
			info.Version, info.MaxDepth, info.FramePointers)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`crashtrace - crash diagnostics demo tool

USAGE:
    crashtrace <command> [arguments]

COMMANDS:
    trace      Print a backtrace of the tool itself
    crash      Install fault handlers and raise a fatal signal
               (one of: segv, ill, fpe)
    version    Show version information
    help       Show this help message

EXAMPLES:
    crashtrace trace
    crashtrace crash segv
`)
}
