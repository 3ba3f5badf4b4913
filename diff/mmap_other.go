//go:build !unix

package diff

import (
	"fmt"
	"os"
)

// mapFile reads the whole file into a heap buffer on platforms
// without a memory-map path.
func mapFile(path string) (content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return content{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return content{}, nil
	}
	return content{kind: contentHeap, data: data}, nil
}

func unmapBytes(data []byte) {}
