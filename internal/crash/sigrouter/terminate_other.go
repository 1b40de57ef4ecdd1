//go:build !unix

package sigrouter

import (
	"os"
	"syscall"
)

// terminate ends the process with the conventional 128+signal status on
// platforms without a raise primitive.
func terminate(s syscall.Signal) {
	os.Exit(128 + int(s))
}
