//go:build amd64 || arm64

package stackcap

const haveFramePointers = true

// callerFP returns the caller's frame pointer register.
// Implemented in assembly; a NOFRAME leaf, so the register still holds
// the caller's chain head when read.
func callerFP() uintptr
