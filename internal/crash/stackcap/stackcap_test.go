package stackcap

import (
	"strings"
	"testing"
)

// visited records one visitor call: the display index and the frame
// fields copied out before the shared buffer is reused.
type visited struct {
	index  int
	symbol string
	hasIP  bool
	hasSP  bool
}

// collectFrames runs a full trace and records every visited frame.
//
//go:noinline
func collectFrames() (int, []visited) {
	var frames []visited
	depth := Trace(func(f Frame, i int) bool {
		frames = append(frames, visited{
			index:  i,
			symbol: f.Symbol.Name(),
			hasIP:  f.HasIP,
			hasSP:  f.HasSP,
		})
		return false
	})
	return depth, frames
}

// TestTraceReturnsFrames tests that a trace from inside a test sees at
// least the test function and its caller.
func TestTraceReturnsFrames(t *testing.T) {
	depth, frames := collectFrames()

	if depth < 2 {
		t.Fatalf("expected depth >= 2, got %d", depth)
	}
	if len(frames) != depth {
		t.Fatalf("visited %d frames, want %d", len(frames), depth)
	}
}

// TestDisplayIndexOrdering tests that the outermost frame is visited
// first with the highest index and the innermost last with index 1.
func TestDisplayIndexOrdering(t *testing.T) {
	depth, frames := collectFrames()

	if frames[0].index != depth {
		t.Errorf("first visited frame has index %d, want %d (outermost)", frames[0].index, depth)
	}
	if frames[len(frames)-1].index != 1 {
		t.Errorf("last visited frame has index %d, want 1 (innermost)", frames[len(frames)-1].index)
	}
	for k := 1; k < len(frames); k++ {
		if frames[k].index != frames[k-1].index-1 {
			t.Fatalf("display indices not strictly decreasing by 1: %d then %d",
				frames[k-1].index, frames[k].index)
		}
	}
}

// TestTraceEarlyStop tests that stopping on the very first frame still
// reports the true total depth.
func TestTraceEarlyStop(t *testing.T) {
	fullDepth := Trace(func(Frame, int) bool { return false })

	count := 0
	depth := Trace(func(Frame, int) bool {
		count++
		return true
	})

	if count != 1 {
		t.Errorf("visitor ran %d times after requesting stop, want 1", count)
	}
	if depth != fullDepth {
		t.Errorf("early-stopped trace returned depth %d, full trace %d", depth, fullDepth)
	}
}

//go:noinline
func recurse(n int, f func() int) int {
	if n == 0 {
		return f()
	}
	// The +1 keeps the recursive call out of tail position.
	return recurse(n-1, f) + 1
}

// TestDepthBound tests that traces from stacks deeper than MaxDepth are
// truncated at the bound.
func TestDepthBound(t *testing.T) {
	count := 0
	depth := recurse(MaxDepth+16, func() int {
		return Trace(func(Frame, int) bool {
			count++
			return false
		})
	})
	depth -= MaxDepth + 16 // undo the +1 accumulation

	if depth > MaxDepth {
		t.Errorf("depth %d exceeds MaxDepth %d", depth, MaxDepth)
	}
	if count > MaxDepth {
		t.Errorf("visited %d frames, bound is %d", count, MaxDepth)
	}
	if depth != MaxDepth {
		t.Errorf("deep stack reported depth %d, want the full bound %d", depth, MaxDepth)
	}
}

// fooTraceFixture plays the "foo calls trace from within main" scenario:
// a named function whose frame must show up innermost with a resolved
// symbol.
//
//go:noinline
func fooTraceFixture() (int, []visited) {
	return collectFrames()
}

// TestScenarioNamedCaller tests that the innermost frames carry present
// addresses and a symbol naming the capturing function.
func TestScenarioNamedCaller(t *testing.T) {
	depth, frames := fooTraceFixture()

	if depth < 2 {
		t.Fatalf("expected depth >= 2, got %d", depth)
	}

	// collectFrames is the innermost level; fooTraceFixture the next.
	inner := frames[len(frames)-1]
	if !inner.hasIP {
		t.Error("innermost frame has no instruction pointer")
	}
	if !strings.Contains(inner.symbol, "collectFrames") {
		t.Errorf("innermost symbol = %q, want it to contain collectFrames", inner.symbol)
	}

	caller := frames[len(frames)-2]
	if !caller.hasIP {
		t.Error("caller frame has no instruction pointer")
	}
	if !strings.Contains(caller.symbol, "fooTraceFixture") {
		t.Errorf("caller symbol = %q, want it to contain fooTraceFixture", caller.symbol)
	}

	if HaveFramePointers() {
		if !inner.hasSP {
			t.Error("innermost frame has no stack pointer on a frame-pointer build")
		}
		if !caller.hasSP {
			t.Error("caller frame has no stack pointer on a frame-pointer build")
		}
	}
}

// TestTraceSkip tests that wrapper skip counts remove the wrapper from
// the reported frames.
func TestTraceSkip(t *testing.T) {
	var innermost string
	TraceSkip(0, func(f Frame, i int) bool {
		if i == 1 {
			innermost = f.Symbol.Name()
		}
		return false
	})

	// TraceSkip(0) behaves like Trace: the test function itself is the
	// innermost level.
	if !strings.Contains(innermost, "TestTraceSkip") {
		t.Errorf("innermost symbol = %q, want it to contain TestTraceSkip", innermost)
	}
}
