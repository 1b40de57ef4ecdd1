// Package backtrace provides the public API for the crash diagnostics
// runtime.
//
// See doc.go for detailed documentation and examples.
package backtrace

import (
	"io"
	"os"

	"github.com/kolkov/crashtrace/internal/crash/report"
	"github.com/kolkov/crashtrace/internal/crash/sigrouter"
	"github.com/kolkov/crashtrace/internal/crash/sourceloc"
	"github.com/kolkov/crashtrace/internal/crash/stackcap"
	"github.com/kolkov/crashtrace/internal/crash/symbolize"
)

// MaxDepth is the maximum number of frames a single trace captures.
const MaxDepth = stackcap.MaxDepth

// Frame is one call-stack record handed to a trace visitor. It is valid
// only for the duration of the visitor call that receives it; copy
// fields out to retain them.
type Frame = stackcap.Frame

// Symbol is a borrowed, bounded view of a resolved symbol name. The view
// is invalidated when the next frame is resolved; Symbol.Name copies the
// text out.
type Symbol = symbolize.Symbol

// Visitor receives one Frame per stack level with its display index
// (1 is nearest the trace call). Returning true stops the trace early.
type Visitor = stackcap.Visitor

// SourceLocation identifies a point in program source (file, function,
// line). See Here.
type SourceLocation = sourceloc.SourceLocation

// Handler is an installed signal disposition, as returned by
// HandleSignal.
type Handler = sigrouter.Handler

// SignalError is the typed failure of HandleSignal.
type SignalError = sigrouter.SignalError

const (
	// Unknown means the requested signal is outside the supported
	// fatal set (SIGSEGV, SIGILL, SIGFPE).
	Unknown = sigrouter.Unknown

	// SigErr means the operating-system registration was rejected.
	SigErr = sigrouter.SigErr
)

// Default is the sentinel Handler standing for the operating system's
// default disposition. The first successful HandleSignal call for a
// signal returns it as the previous handler.
var Default = sigrouter.Default

// Trace captures the calling goroutine's stack and drives visitor over
// it, one frame at a time, outermost frame first.
//
// Exactly one frame, the capturer's own, is skipped, so the innermost
// reported level (display index 1) is Trace's caller. The return value
// is the total number of frames walked, even when the visitor stopped
// early:
//
//	depth := backtrace.Trace(func(f backtrace.Frame, i int) bool {
//		fmt.Printf("#%d %s\n", i, f.Symbol.Name())
//		return false // keep going
//	})
//
// Trace never allocates on the capture path and is safe to call from a
// goroutine that is already panicking.
//
//go:noinline
func Trace(visitor Visitor) int {
	return stackcap.TraceSkip(1, visitor)
}

// PrintBacktrace writes the current goroutine's backtrace to the process
// error stream, unbuffered, and returns the number of frames walked.
//
// The output starts with a preamble explaining the "ip" (instruction
// pointer) and "sp" (stack pointer) abbreviations, followed by one line
// per frame. Fields that could not be resolved print the <unknown>
// marker. The format targets a human reading stderr, not a parser.
func PrintBacktrace() int {
	return report.PrintBacktrace()
}

// FprintBacktrace is PrintBacktrace writing to w instead of stderr.
// w should flush synchronously if the process may terminate right after.
func FprintBacktrace(w io.Writer) int {
	return report.FprintBacktrace(w)
}

// HandleCrash reports a recovered panic value followed by a backtrace,
// then re-raises the panic. It is the composition hook for error
// propagation libraries whose unwrap-failure path needs to report where
// the program died:
//
//	defer func() { backtrace.HandleCrash(recover()) }()
//
// A nil recovered value is a no-op.
func HandleCrash(recovered any) {
	report.HandleCrash(recovered)
}

// HandleSignal installs the crash-reporting handler for one fatal
// signal (SIGSEGV, SIGILL or SIGFPE) and returns the previously
// installed handler so the caller may chain or later restore it.
//
// The first successful call for a signal returns Default. Calling again
// for the same signal succeeds and returns the handler installed by the
// earlier call (last writer wins). There is no unregister operation.
//
// Failures are typed: Unknown for a signal outside the supported set,
// SigErr when the OS rejects the registration; in both cases the
// signal's previous disposition is untouched.
//
// On a real delivery the installed handler writes a signal-specific
// diagnostic line and a backtrace to stderr, then terminates the
// process abnormally. It never returns control to faulted code.
func HandleSignal(sig os.Signal) (Handler, error) {
	return sigrouter.HandleSignal(sig)
}

// PreloadSymbols eagerly loads the process image's symbol table used as
// the fallback for non-Go frames. HandleSignal does this implicitly;
// programs that only ever call Trace/PrintBacktrace can call it once at
// startup to improve cgo frame resolution. Best-effort: errors can be
// ignored, resolution just degrades.
func PreloadSymbols() error {
	return symbolize.Preload()
}

// Here captures the source location of its call site: file, function
// and line (column is not available on this platform and reads 0).
// Capture is best-effort and degrades to "unknown" placeholders rather
// than failing.
func Here() SourceLocation {
	return sourceloc.Capture(1)
}
