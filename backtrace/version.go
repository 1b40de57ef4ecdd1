package backtrace

import "github.com/kolkov/crashtrace/internal/crash/stackcap"

// Version information for the crash diagnostics runtime.
const (
	// Version is the current version of the runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the crash diagnostics
// facilities available in this build.
type Info struct {
	// Version is the runtime version string.
	Version string

	// MaxDepth is the frame bound of a single trace.
	MaxDepth int

	// FramePointers reports whether this build walks a real
	// frame-pointer chain; when false, traces carry instruction
	// pointers only.
	FramePointers bool
}

// GetInfo returns information about the crash diagnostics runtime.
//
// Example:
//
//	info := backtrace.GetInfo()
//	fmt.Printf("crashtrace %s (fp: %v)\n", info.Version, info.FramePointers)
func GetInfo() Info {
	return Info{
		Version:       Version,
		MaxDepth:      stackcap.MaxDepth,
		FramePointers: stackcap.HaveFramePointers(),
	}
}
