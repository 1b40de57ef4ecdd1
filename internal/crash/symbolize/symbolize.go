// Package symbolize translates raw instruction addresses into
// human-readable symbol names, best-effort.
//
// Resolution writes into a caller-supplied fixed-capacity Buffer that is
// zeroed before every attempt, so a failed resolution can never leak the
// previous frame's text. A Symbol is a borrowed view into that buffer:
// it is valid only until the buffer's next resolution attempt, and a
// caller that wants to keep the text must copy it out (Name does this).
//
// Two facilities are consulted in order:
//
//  1. runtime.FuncForPC, which covers all Go functions, allocation-free.
//  2. The process image's ELF symbol table (linux only), preloaded by
//     Preload and searched with an allocation-free binary search, which
//     covers non-Go (cgo, assembly-only) text addresses.
//
// Resolution failure is not an error: the caller degrades that single
// frame to an "unknown" marker and the trace continues.
package symbolize

import "runtime"

// BufferSize is the fixed capacity of a symbol buffer. Longer names are
// truncated, never extended: the crash path must not allocate.
const BufferSize = 256

// Buffer is the reusable backing store for resolved symbol names.
// One Buffer serves an entire trace; it is zeroed between frames.
type Buffer [BufferSize]byte

// Symbol is a borrowed, bounded view of a resolved name inside a Buffer.
//
// The view is invalidated by the buffer's next Resolve call. The zero
// Symbol is empty.
type Symbol struct {
	buf *Buffer
	n   int
}

// Raw returns the symbol bytes without copying. The slice aliases the
// shared buffer and must not be retained across frames.
func (s Symbol) Raw() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf[:s.n]
}

// Name copies the symbol text out of the shared buffer and returns it as
// a string that survives buffer reuse.
func (s Symbol) Name() string {
	return string(s.Raw())
}

// Len reports the resolved name's length in bytes (after truncation).
func (s Symbol) Len() int {
	return s.n
}

// Resolve attempts to write the name of the function containing pc into
// buf and returns a Symbol viewing it.
//
// buf is zeroed before the attempt. On failure the second return is
// false and buf stays zeroed. Resolve never allocates: it is safe on the
// crash reporting path.
func Resolve(pc uintptr, buf *Buffer) (Symbol, bool) {
	for i := range buf {
		buf[i] = 0
	}

	if fn := runtime.FuncForPC(pc); fn != nil {
		n := copy(buf[:], fn.Name())
		return Symbol{buf: buf, n: n}, true
	}

	// Not a Go function. Fall back to the preloaded process symbol
	// table, if any (no-op until Preload has run).
	if name, ok := lookupImage(pc); ok {
		n := copy(buf[:], name)
		return Symbol{buf: buf, n: n}, true
	}

	return Symbol{}, false
}
