// Package sourceloc captures call-site information (file, function, line)
// for diagnostic messages.
//
// A SourceLocation is a plain value: it has no identity beyond its fields
// and is copied freely. Capture is best-effort: when the runtime cannot
// identify the call site (stripped binaries, corrupted stacks), the
// captured value degrades to the "unknown" placeholders instead of
// failing.
//
// Column information is not available from the Go runtime, so Column is
// always zero. Callers that format locations should treat zero as
// "not captured".
package sourceloc

import (
	"runtime"
	"strconv"
)

// placeholder is used for fields the runtime could not provide.
const placeholder = "unknown"

// SourceLocation identifies a point in program source.
//
// The zero value has empty fields and represents "no location captured".
// A capture that reached the runtime but failed to resolve uses the
// "unknown" placeholder strings instead, so the two cases are
// distinguishable.
type SourceLocation struct {
	// File is the full path of the source file, or "unknown".
	File string

	// Function is the fully qualified function name
	// (e.g. "github.com/kolkov/crashtrace/backtrace.Here"), or "unknown".
	Function string

	// Line is the 1-based source line, 0 when not captured.
	Line uint32

	// Column is always 0: the Go runtime does not expose column
	// information for call sites.
	Column uint32
}

// Current captures the location of the line that calls Current.
//
// Example:
//
//	loc := sourceloc.Current()
//	fmt.Println(loc) // path/to/caller.go:12 (pkg.Caller)
func Current() SourceLocation {
	// Skip capture and Current itself.
	return capture(2)
}

// Capture captures a location skip frames above the caller.
// Capture(0) is equivalent to Current() at the call site; wrappers that
// re-export capture pass 1 for each frame they add.
func Capture(skip int) SourceLocation {
	return capture(skip + 2)
}

func capture(skip int) SourceLocation {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		// Degrade to placeholders rather than failing. Matches the
		// behavior of compilers without call-site builtins.
		return SourceLocation{File: placeholder, Function: placeholder}
	}

	function := placeholder
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}

	if line < 0 {
		line = 0
	}

	return SourceLocation{
		File:     file,
		Function: function,
		Line:     uint32(line),
	}
}

// String renders the location as "file:line (function)".
// Zero or placeholder fields render as captured; a zero-value location
// renders as "unknown:0 (unknown)".
func (l SourceLocation) String() string {
	file := l.File
	if file == "" {
		file = placeholder
	}
	function := l.Function
	if function == "" {
		function = placeholder
	}
	return file + ":" + strconv.FormatUint(uint64(l.Line), 10) + " (" + function + ")"
}
