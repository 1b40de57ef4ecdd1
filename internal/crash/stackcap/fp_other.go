//go:build !amd64 && !arm64

package stackcap

const haveFramePointers = false

// callerFP reports no frame pointer on architectures where the chain is
// not reliably maintained; traces degrade to instruction pointers only.
func callerFP() uintptr {
	return 0
}
