// Package report formats captured backtraces for a human reading the
// process error stream.
//
// Output goes to os.Stderr through plain file-descriptor writes, which
// flush synchronously: the process may terminate immediately after the
// report, so nothing here buffers. The format is one frame per line and
// is deliberately not machine-parseable.
//
// The report path allocates only small formatting temporaries on an
// ordinary goroutine; the underlying capture (stackcap, symbolize) stays
// allocation-free so it also works from a goroutine that is mid-panic.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kolkov/crashtrace/internal/crash/stackcap"
)

// unknownMark is printed for any frame field that could not be resolved.
const unknownMark = "<unknown>"

// preamble explains the abbreviations used on frame lines. Written once
// before the frames.
const preamble = "\n\nBacktrace:\nip: Instruction Pointer,  sp: Stack Pointer\n\n"

// Options adjusts backtrace rendering. The zero value renders a plain
// report.
type Options struct {
	// ModulePath, when set, marks frames whose symbol belongs to that
	// module with a '*' after the frame number, making the host
	// program's own frames easy to spot among runtime and library
	// frames.
	ModulePath string
}

// PrintBacktrace writes the current goroutine's backtrace to the process
// error stream and returns the number of frames walked.
func PrintBacktrace() int {
	return FprintBacktrace(os.Stderr)
}

// FprintBacktrace writes the current goroutine's backtrace to w with
// default options and returns the number of frames walked.
func FprintBacktrace(w io.Writer) int {
	return Options{}.Fprint(w)
}

// Fprint writes the current goroutine's backtrace to w.
//
// Each line carries the frame's display index (1 is nearest the call
// site, printed last), the resolved symbol or the unknown marker, and
// the instruction- and stack-pointer addresses in hexadecimal or the
// unknown marker. Returns the number of frames walked.
func (o Options) Fprint(w io.Writer) int {
	fmt.Fprint(w, preamble)

	var modPrefix []byte
	if o.ModulePath != "" {
		modPrefix = []byte(o.ModulePath)
	}

	depth := stackcap.Trace(func(frame stackcap.Frame, i int) bool {
		mark := "\t"
		if modPrefix != nil && frame.HasSymbol && bytes.HasPrefix(frame.Symbol.Raw(), modPrefix) {
			mark = "*"
		}
		fmt.Fprintf(w, "#%d%s\t", i, mark)

		if frame.HasSymbol {
			w.Write(frame.Symbol.Raw())
		} else {
			fmt.Fprint(w, unknownMark)
		}

		if frame.HasIP {
			fmt.Fprintf(w, "\t (ip: 0x%x", frame.IP)
		} else {
			fmt.Fprintf(w, "\t (ip: %s", unknownMark)
		}

		if frame.HasSP {
			fmt.Fprintf(w, ", sp: 0x%x)\n", frame.SP)
		} else {
			fmt.Fprintf(w, ", sp: %s)\n", unknownMark)
		}

		return false
	})

	fmt.Fprint(w, "\n")
	return depth
}

// HandleCrash reports a recovered panic value followed by a backtrace,
// then re-raises the panic so the runtime still terminates the process
// abnormally.
//
// Intended to be composed into a caller's own recover path:
//
//	defer func() { report.HandleCrash(recover()) }()
//
// A nil recovered value is a no-op, so the helper is safe to call
// unconditionally.
func HandleCrash(recovered any) {
	if recovered == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "\n\npanic: %v\n", recovered)
	PrintBacktrace()
	panic(recovered)
}
