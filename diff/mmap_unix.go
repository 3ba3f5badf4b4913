//go:build unix

package diff

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile memory-maps a file read-only. Empty files are returned as
// empty unloaded content since zero-length mappings are invalid.
func mapFile(path string) (content, error) {
	f, err := os.Open(path)
	if err != nil {
		return content{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return content{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return content{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return content{}, fmt.Errorf("mapping %s: %w", path, err)
	}
	return content{kind: contentMapped, data: data}, nil
}

func unmapBytes(data []byte) {
	if data != nil {
		unix.Munmap(data)
	}
}
