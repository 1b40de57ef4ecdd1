package report

import (
	"bytes"
	"strings"
	"testing"
)

// TestFprintBacktraceFormat tests the preamble and per-frame line shape.
func TestFprintBacktraceFormat(t *testing.T) {
	var buf bytes.Buffer
	depth := FprintBacktrace(&buf)
	out := buf.String()

	if depth < 1 {
		t.Fatalf("depth = %d, want >= 1", depth)
	}

	if !strings.Contains(out, "Backtrace:") {
		t.Error("output missing the Backtrace: preamble")
	}
	if !strings.Contains(out, "ip: Instruction Pointer,  sp: Stack Pointer") {
		t.Error("output missing the ip/sp legend")
	}

	frameLines := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "#") {
			frameLines++
			if !strings.Contains(line, "(ip: ") {
				t.Errorf("frame line missing ip field: %q", line)
			}
			if !strings.Contains(line, "sp: ") {
				t.Errorf("frame line missing sp field: %q", line)
			}
		}
	}
	if frameLines != depth {
		t.Errorf("printed %d frame lines, reported depth %d", frameLines, depth)
	}

	// The innermost frame (#1) is printed last and is this goroutine's
	// reporting path.
	if !strings.Contains(out, "#1") {
		t.Error("output missing frame #1")
	}
}

// TestModuleMarking tests that frames of the configured module get the
// '*' mark while foreign frames do not.
func TestModuleMarking(t *testing.T) {
	var buf bytes.Buffer
	Options{ModulePath: "github.com/kolkov/crashtrace"}.Fprint(&buf)
	out := buf.String()

	var marked, unmarked bool
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "*\t") {
			marked = true
		} else {
			unmarked = true
		}
	}

	// The report path itself is in this module, and the testing harness
	// frames above it are not.
	if !marked {
		t.Error("no frame was marked as belonging to the module")
	}
	if !unmarked {
		t.Error("every frame was marked; testing harness frames should not be")
	}
}

// TestHandleCrashNil tests that a nil recovered value is a no-op.
func TestHandleCrashNil(t *testing.T) {
	HandleCrash(nil) // must not panic
}

// TestHandleCrashRepanics tests that the recovered value is re-raised
// after reporting.
func TestHandleCrashRepanics(t *testing.T) {
	defer func() {
		r := recover()
		if r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()

	func() {
		defer func() { HandleCrash(recover()) }()
		panic("boom")
	}()

	t.Fatal("HandleCrash returned instead of re-raising")
}
