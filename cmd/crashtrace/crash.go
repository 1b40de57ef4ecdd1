//go:build unix

package main

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/kolkov/crashtrace/backtrace"
)

var crashSignals = map[string]syscall.Signal{
	"segv": syscall.SIGSEGV,
	"ill":  syscall.SIGILL,
	"fpe":  syscall.SIGFPE,
}

// crashCommand installs the fault handlers for the whole supported set,
// then raises the named signal at the process. The installed handler
// prints the diagnostic report and terminates, so this command never
// returns on success.
func crashCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "crash takes exactly one argument (segv, ill or fpe)\n")
		os.Exit(1)
	}

	target, ok := crashSignals[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown signal name %q (want segv, ill or fpe)\n", args[0])
		os.Exit(1)
	}

	for _, sig := range crashSignals {
		if _, err := backtrace.HandleSignal(sig); err != nil {
			fmt.Fprintf(os.Stderr, "installing handler for %v: %v\n", sig, err)
			os.Exit(1)
		}
	}

	fmt.Printf("raising %v against pid %d\n", target, unix.Getpid())
	if err := unix.Kill(unix.Getpid(), target); err != nil {
		fmt.Fprintf(os.Stderr, "raising %v: %v\n", target, err)
		os.Exit(1)
	}

	// Delivery is asynchronous; wait for the handler to take the
	// process down.
	select {}
}
