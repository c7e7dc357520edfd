package cuckoo

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Hasher computes the wide hash a filter derives fingerprints and home
// bucket indices from. Implementations must be deterministic: the same
// input must always produce the same pair of 64-bit halves, because an
// element's fingerprint has to be reproducible for the lifetime of the
// filter. The filter takes the home bucket index from hi and the
// fingerprint from lo, so the two halves should be independent.
type Hasher interface {
	// Hash returns the two 64-bit halves of a 128-bit hash of data.
	Hash(data []byte) (hi, lo uint64)

	// HashString is Hash for string keys. Implementations should avoid
	// converting s to a byte slice so string-keyed operations do not
	// allocate.
	HashString(s string) (hi, lo uint64)
}

// FingerprintHash scrambles a stored fingerprint to derive the offset
// between an element's two candidate buckets. It must be deterministic,
// and it should distribute well in the low bits since the filter reduces
// the result with a bitmask.
type FingerprintHash func(fp uint32) uint64

// XXH3 is the default Hasher. It uses the 128-bit variant of the xxh3
// hash, which is fast, well distributed, and produces independent halves.
type XXH3 struct{}

// Hash returns the two halves of the 128-bit xxh3 hash of data.
func (XXH3) Hash(data []byte) (hi, lo uint64) {
	h := xxh3.Hash128(data)
	return h.Hi, h.Lo
}

// HashString returns the two halves of the 128-bit xxh3 hash of s
// without allocating.
func (XXH3) HashString(s string) (hi, lo uint64) {
	h := xxh3.HashString128(s)
	return h.Hi, h.Lo
}

// xxh3Fingerprint is the default FingerprintHash. It hashes the
// little-endian encoding of the fingerprint with 64-bit xxh3.
func xxh3Fingerprint(fp uint32) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], fp)
	return xxh3.Hash(buf[:])
}
