//go:build unix

package sigrouter

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// terminate ends the process through the signal's own default action:
// the disposition is reset and the signal re-raised, so the exit status
// records death-by-signal rather than a plain exit code.
func terminate(s syscall.Signal) {
	signal.Reset(s)
	_ = unix.Kill(unix.Getpid(), s)

	// The re-raise is asynchronous in the worst case; make sure we do
	// not return into faulted code.
	os.Exit(128 + int(s))
}
