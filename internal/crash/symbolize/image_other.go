//go:build !linux

package symbolize

// Preload is a no-op on platforms without ELF process images.
// Resolution falls back to the runtime facility alone.
func Preload() error {
	return nil
}

func lookupImage(pc uintptr) (string, bool) {
	return "", false
}
