package grid

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a cell to a 64-bit bucket key. It must be deterministic;
// it is not required to resist adversarial input.
type HashFunc func(Cell) uint64

const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// FNV1a is the 64-bit FNV-1a hash of b.
func FNV1a(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// HashFNV hashes the cell's 12-byte little-endian representation with FNV-1a.
func HashFNV(c Cell) uint64 {
	var buf [12]byte
	return FNV1a(c.appendBytes(buf[:0]))
}

// HashXX hashes the same representation with xxHash64.
func HashXX(c Cell) uint64 {
	var buf [12]byte
	return xxhash.Sum64(c.appendBytes(buf[:0]))
}

// HasherByName resolves the hash named in configuration.
func HasherByName(name string) (HashFunc, error) {
	switch name {
	case "", "fnv", "fnv1a":
		return HashFNV, nil
	case "xxhash", "xx":
		return HashXX, nil
	}
	return nil, fmt.Errorf("unknown grid hash %q", name)
}
