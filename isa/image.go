package isa

import (
	"errors"
	"io"
	"os"
)

// ReadImage reads a whole .um image and returns its words. The image
// must be nonempty and a multiple of four bytes.
func ReadImage(r io.Reader) ([]uint32, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errors.New(".um file is empty")
	}
	return BytesToWords(b)
}

// LoadImage reads a .um image from a file.
func LoadImage(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadImage(f)
}
