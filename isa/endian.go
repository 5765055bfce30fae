package isa

import (
	"encoding/binary"
	"fmt"
)

// WordsToBytes serializes words in the canonical big-endian order.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// BytesToWords interprets bytes as big-endian 32-bit words.
func BytesToWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf(".um size not divisible by 4 (%d bytes)", len(b))
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	return out, nil
}
