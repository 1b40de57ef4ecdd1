// Package stackcap captures the calling goroutine's stack and drives a
// visitor over its frames, one frame at a time.
//
// Capture uses two independent walking facilities:
//
//   - instruction pointers come from runtime.Callers into a fixed-size
//     array;
//   - stack pointers come from walking the frame-pointer chain on
//     architectures that maintain one (amd64, arm64).
//
// The two walks can report different depths; frames are paired
// index-for-index up to the minimum of the two, so the trace is bounded
// by the shorter walk. The walks are not guaranteed to agree
// frame-for-frame when inlining or a broken chain shortens one of them;
// callers must treat the stack-pointer column as best-effort.
//
// The capture path performs no heap allocation: all working state lives
// in fixed-size stack arrays. This keeps Trace safe to call from a
// goroutine that is already panicking or reporting a fatal condition.
package stackcap

import (
	"runtime"
	"unsafe"

	"github.com/kolkov/crashtrace/internal/crash/symbolize"
)

// MaxDepth is the maximum number of frames a single trace captures.
// Deeper stacks are truncated at the innermost MaxDepth frames.
const MaxDepth = 64

// maxStackScan bounds how far above the current stack position the
// frame-pointer walk will follow the chain before giving up.
const maxStackScan = 1 << 20

const ptrSize = unsafe.Sizeof(uintptr(0))

// Frame is one call-stack record handed to a trace visitor.
//
// A Frame is ephemeral: it is valid only for the duration of the visitor
// call that receives it. In particular Symbol views a shared buffer that
// is zeroed and reused for the next frame; copy fields out (Symbol.Name)
// to retain them.
type Frame struct {
	// IP is the frame's instruction pointer; meaningful only when HasIP.
	IP uintptr

	// SP is the frame's stack pointer; meaningful only when HasSP.
	// Absent on architectures without frame-pointer support and on
	// frames past the end of the frame-pointer walk.
	SP uintptr

	// Symbol is the resolved name for IP; meaningful only when
	// HasSymbol. Borrowed, see the Frame doc.
	Symbol symbolize.Symbol

	HasIP     bool
	HasSP     bool
	HasSymbol bool
}

// Visitor receives one Frame per stack level together with its display
// index. The innermost visited frame reports index 1 and the outermost
// reports the effective depth. Returning true stops the trace early;
// remaining frames are neither resolved nor visited.
type Visitor func(frame Frame, displayIndex int) bool

// Trace captures the calling goroutine's stack and drives visitor over
// it, outermost frame first.
//
// Exactly one frame, Trace's own, is skipped, so the first captured
// level is Trace's caller. The return value is the effective depth of
// the capture, even when the visitor stopped early.
//
//go:noinline
func Trace(visitor Visitor) int {
	return trace(1, visitor)
}

// TraceSkip is Trace for wrappers: skip counts additional frames to
// drop beyond Trace's own, so that a facade calling TraceSkip(1, v)
// reports its caller as the innermost level.
//
//go:noinline
func TraceSkip(skip int, visitor Visitor) int {
	return trace(skip+1, visitor)
}

//go:noinline
func trace(skip int, visitor Visitor) int {
	var ips [MaxDepth]uintptr
	var sps [MaxDepth]uintptr

	// Both walks discard the same frames: runtime.Callers/fpWalk, this
	// function, and the skip exported entry points account for.
	ipDepth := runtime.Callers(skip+2, ips[:])
	spDepth := fpWalk(sps[:], skip+2)

	depth := ipDepth
	hasSP := true
	if spDepth == 0 {
		// Frame pointers unavailable (unsupported architecture or a
		// chain that broke before reaching real frames). Degrade to an
		// IP-only trace instead of reporting an empty stack.
		hasSP = false
	} else if spDepth < depth {
		depth = spDepth
	}

	var buf symbolize.Buffer
	for i := 0; i < depth; i++ {
		// Walk from the outermost captured frame inward so the frame
		// nearest the call site reports the lowest display index.
		j := depth - 1 - i

		frame := Frame{IP: ips[j], HasIP: true}
		if hasSP && sps[j] != 0 {
			frame.SP = sps[j]
			frame.HasSP = true
		}
		if sym, ok := symbolize.Resolve(ips[j], &buf); ok {
			frame.Symbol = sym
			frame.HasSymbol = true
		}

		if visitor(frame, depth-i) {
			break
		}
	}

	return depth
}

// fpWalk records the frame pointer of each physical frame above the
// capturer into sps and returns how many it recorded.
//
// discard counts frames to drop from the top of the chain, including
// fpWalk's own. The walk stops at the first implausible link: a pointer
// outside the scan window, a misaligned pointer, a chain that fails to
// move toward the stack base, or a return address the runtime does not
// recognize.
//
//go:noinline
func fpWalk(sps []uintptr, discard int) int {
	fp := callerFP()
	if fp == 0 {
		return 0
	}

	// Frames live at numerically greater addresses than any local of
	// the innermost frame.
	lo := uintptr(unsafe.Pointer(&fp))
	hi := lo + maxStackScan

	n := 0
	for hop := 0; n < len(sps); hop++ {
		if fp < lo || fp >= hi || fp&(ptrSize-1) != 0 {
			break
		}

		// Layout shared by amd64 and arm64 in Go: *fp is the previous
		// frame pointer, *(fp+8) is the frame's return address.
		next := *(*uintptr)(unsafe.Pointer(fp))
		ret := *(*uintptr)(unsafe.Pointer(fp + ptrSize))

		if hop >= discard {
			if ret == 0 || runtime.FuncForPC(ret) == nil {
				break
			}
			sps[n] = fp
			n++
		}

		if next <= fp {
			break
		}
		fp = next
	}

	return n
}

// HaveFramePointers reports whether this build walks a real
// frame-pointer chain. When false, traces carry instruction pointers
// only.
func HaveFramePointers() bool {
	return haveFramePointers
}
