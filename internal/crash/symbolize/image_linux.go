//go:build linux

package symbolize

import (
	"debug/elf"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ianlancetaylor/demangle"
)

// imageSym is one entry of the preloaded process symbol table.
// Entries are sorted by Addr for binary search.
type imageSym struct {
	Addr uintptr
	Size uintptr
	Name string
}

var image struct {
	mu     sync.Mutex
	loaded bool
	syms   []imageSym
}

// Preload reads the symbol table of the process's own executable and
// keeps it sorted in memory for later allocation-free lookups.
//
// Preload allocates and reads files, so it must be called at install
// time (handler registration, program startup), never from the crash
// path itself. Calling it more than once is a no-op. A missing or
// stripped symbol table is not an error: lookups simply keep failing and
// frames degrade to the unknown marker.
//
// Addresses are matched as linked. Position-independent executables
// relocate the text segment at load time, so lookups in PIE binaries
// may miss; this facility is best-effort by design.
func Preload() error {
	image.mu.Lock()
	defer image.mu.Unlock()

	if image.loaded {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating process image: %w", err)
	}

	f, err := elf.Open(exe)
	if err != nil {
		return fmt.Errorf("opening process image: %w", err)
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		// Stripped binary. Leave the table empty but mark it loaded so
		// we don't retry on every install.
		image.loaded = true
		return nil
	}

	table := make([]imageSym, 0, len(syms))
	for _, s := range syms {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC || s.Value == 0 || s.Name == "" {
			continue
		}
		table = append(table, imageSym{
			Addr: uintptr(s.Value),
			Size: uintptr(s.Size),
			// Demangle C++/Rust names now, while allocation is still
			// allowed. Filter returns the input unchanged for names
			// that are not mangled.
			Name: demangle.Filter(s.Name),
		})
	}

	sort.Slice(table, func(i, j int) bool { return table[i].Addr < table[j].Addr })

	image.syms = table
	image.loaded = true
	return nil
}

// lookupImage finds the preloaded symbol covering pc.
//
// Runs in O(log n) with no allocation. Returns false until Preload has
// populated the table, or when pc falls outside every known symbol.
func lookupImage(pc uintptr) (string, bool) {
	// Reading image.syms without the mutex is fine on the crash path:
	// the slice is written once under the mutex before any lookup can
	// observe loaded == true, and never mutated afterwards.
	syms := image.syms
	if len(syms) == 0 {
		return "", false
	}

	// First symbol starting after pc; the candidate is its predecessor.
	i := sort.Search(len(syms), func(i int) bool { return syms[i].Addr > pc })
	if i == 0 {
		return "", false
	}

	s := syms[i-1]
	if s.Size != 0 && pc >= s.Addr+s.Size {
		return "", false
	}
	return s.Name, true
}

// resetImageForTest drops the preloaded table so tests can exercise both
// the empty and the populated lookup paths.
func resetImageForTest() {
	image.mu.Lock()
	defer image.mu.Unlock()
	image.loaded = false
	image.syms = nil
}
