package backtrace_test

import (
	"bytes"
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/kolkov/crashtrace/backtrace"
)

// TestTraceInnermostIsCaller tests that the facade skips its own frame:
// display index 1 belongs to the function that called Trace.
func TestTraceInnermostIsCaller(t *testing.T) {
	var innermost string
	depth := backtrace.Trace(func(f backtrace.Frame, i int) bool {
		if i == 1 {
			innermost = f.Symbol.Name()
		}
		return false
	})

	if depth < 2 {
		t.Fatalf("depth = %d, want >= 2", depth)
	}
	if !strings.Contains(innermost, "TestTraceInnermostIsCaller") {
		t.Errorf("innermost symbol = %q, want the test function", innermost)
	}
}

// TestTraceEarlyStopDepth tests that stopping on the first frame still
// reports the full depth.
func TestTraceEarlyStopDepth(t *testing.T) {
	full := backtrace.Trace(func(backtrace.Frame, int) bool { return false })

	visits := 0
	stopped := backtrace.Trace(func(backtrace.Frame, int) bool {
		visits++
		return true
	})

	if visits != 1 {
		t.Errorf("visited %d frames after stop, want 1", visits)
	}
	if stopped != full {
		t.Errorf("stopped trace depth %d, full depth %d", stopped, full)
	}
}

// TestFprintBacktrace tests the rendered report end to end through the
// facade.
func TestFprintBacktrace(t *testing.T) {
	var buf bytes.Buffer
	depth := backtrace.FprintBacktrace(&buf)

	if depth < 1 {
		t.Fatalf("depth = %d", depth)
	}
	out := buf.String()
	if !strings.Contains(out, "ip: Instruction Pointer") {
		t.Error("missing preamble legend")
	}
	if !strings.Contains(out, "#1") {
		t.Error("missing innermost frame line")
	}
}

// TestHandleSignalUnsupported tests the typed Unknown failure for a
// termination-request signal.
func TestHandleSignalUnsupported(t *testing.T) {
	_, err := backtrace.HandleSignal(syscall.SIGTERM)
	if !errors.Is(err, backtrace.Unknown) {
		t.Fatalf("error = %v, want Unknown", err)
	}
}

// TestHandleSignalLastWriterWins tests that re-registration reports the
// previously installed handler instead of the OS default.
func TestHandleSignalLastWriterWins(t *testing.T) {
	if _, err := backtrace.HandleSignal(syscall.SIGFPE); err != nil {
		t.Fatalf("first HandleSignal: %v", err)
	}

	prev, err := backtrace.HandleSignal(syscall.SIGFPE)
	if err != nil {
		t.Fatalf("second HandleSignal: %v", err)
	}
	if prev == backtrace.Default {
		t.Error("second registration still reports the OS default as previous")
	}
}

// TestHere tests call-site capture through the facade.
func TestHere(t *testing.T) {
	loc := backtrace.Here()

	if !strings.HasSuffix(loc.File, "api_test.go") {
		t.Errorf("File = %q, want an api_test.go path", loc.File)
	}
	if !strings.Contains(loc.Function, "TestHere") {
		t.Errorf("Function = %q, want it to contain TestHere", loc.Function)
	}
	if loc.Line == 0 {
		t.Error("Line = 0")
	}
}

// TestGetInfo tests the version surface.
func TestGetInfo(t *testing.T) {
	info := backtrace.GetInfo()

	if info.Version != backtrace.Version {
		t.Errorf("Info.Version = %q, want %q", info.Version, backtrace.Version)
	}
	if info.MaxDepth != backtrace.MaxDepth {
		t.Errorf("Info.MaxDepth = %d, want %d", info.MaxDepth, backtrace.MaxDepth)
	}
}

// TestPreloadSymbols tests that preloading is callable and repeatable.
func TestPreloadSymbols(t *testing.T) {
	if err := backtrace.PreloadSymbols(); err != nil {
		t.Fatalf("PreloadSymbols: %v", err)
	}
	if err := backtrace.PreloadSymbols(); err != nil {
		t.Fatalf("second PreloadSymbols: %v", err)
	}
}
