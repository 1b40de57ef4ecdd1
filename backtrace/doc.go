// Package backtrace provides pure-Go process-crash diagnostics: bounded
// allocation-free stack capture, best-effort symbol resolution, and
// process-wide fatal-signal handlers that print a diagnostic report
// before the process terminates abnormally.
//
// # Quick Start
//
// Install the fatal-signal handlers once at program startup:
//
//	package main
//
//	import (
//		"syscall"
//
//		"github.com/kolkov/crashtrace/backtrace"
//	)
//
//	func main() {
//		for _, sig := range []syscall.Signal{syscall.SIGSEGV, syscall.SIGILL, syscall.SIGFPE} {
//			if _, err := backtrace.HandleSignal(sig); err != nil {
//				panic(err)
//			}
//		}
//		// ... rest of program
//	}
//
// When one of those signals is delivered, the process writes a
// signal-specific diagnostic line and a backtrace to stderr, then dies
// through the signal's default action so the exit status still records
// death-by-signal.
//
// # On-Demand Traces
//
// The same capture machinery works synchronously, outside any fault.
// An error-propagation library's panic path typically composes it as:
//
//	loc := backtrace.Here() // where the unwrap failed
//	fmt.Fprintf(os.Stderr, "unwrap failed at %s\n", loc)
//	backtrace.PrintBacktrace()
//
// or walks frames itself with [Trace], stopping early once it has seen
// enough:
//
//	backtrace.Trace(func(f backtrace.Frame, i int) bool {
//		return i >= 10 // first ten frames are plenty
//	})
//
// # API Overview
//
// The package provides:
//   - Stack capture and frame iteration: [Trace], [MaxDepth]
//   - Crash reporting: [PrintBacktrace], [FprintBacktrace], [HandleCrash]
//   - Fatal-signal routing: [HandleSignal], [Default], [SignalError]
//   - Call-site capture: [Here], [SourceLocation]
//   - Symbol preloading for cgo frames: [PreloadSymbols]
//
// # How It Works
//
// Capture runs two independent stack walks (instruction pointers via
// the runtime, stack pointers via the frame-pointer chain on amd64 and
// arm64) and pairs them up to the shorter walk's depth. Symbols resolve
// through the runtime first and fall back to the process image's symbol
// table (with C++/Rust demangling) for non-Go frames. Every frame is
// materialized lazily: a visitor that stops early saves the remaining
// resolution work.
//
// All capture state is stack-local and fixed-size; nothing on the
// capture path allocates, so it behaves even when the process is
// already in a bad way.
//
// # Failure Semantics
//
// Symbol resolution failure is not an error: the frame's symbol is
// simply absent and the reporter prints the <unknown> marker for it.
// Setup failures (unsupported signal, rejected registration) surface as
// typed [SignalError] values for the caller to decide policy on. The
// fault path itself is terminal: no retry, no recovery, no resumption
// of faulted code.
//
// # Compatibility
//
// Platform support:
//   - Operating systems: Linux, macOS, *BSD (full); others degrade
//   - Frame pointers: amd64, arm64 (other architectures trace
//     instruction pointers only)
//   - CGO requirement: None (works with CGO_ENABLED=0)
//
// Hardware faults raised by Go code itself become runtime panics before
// any signal is delivered; cover those with [HandleCrash] on the panic
// side. The signal handlers observe fatal signals delivered to the
// process from outside.
package backtrace
