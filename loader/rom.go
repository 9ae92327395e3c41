// Package loader reads ROM image files from disk into byte slices,
// including the Genesis/Mega Drive interleaved .smd format.
package loader

import "os"

// LoadRaw reads path into a byte slice with no format interpretation,
// for plain .bin/.rom images.
func LoadRaw(path string) ([]byte, error) {
	return os.ReadFile(path)
}
