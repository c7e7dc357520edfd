package cuckoo

import "math"

const (
	// DefaultSlotsPerBucket is the number of fingerprint slots per bucket
	// used when no override is given. Four slots per bucket supports load
	// factors around 95% while keeping lookups to eight slot comparisons.
	DefaultSlotsPerBucket = 4

	// DefaultMaxKicks is the eviction bound used when no override is
	// given. Insertion gives up and reports the filter full after this
	// many relocations.
	DefaultMaxKicks = 500

	// maxLoadFactor is the highest design load the sizing math accepts.
	// Eviction chains lengthen sharply as occupancy approaches 100%, so
	// construction doubles the bucket count rather than exceed this.
	maxLoadFactor = 0.96

	// maxFingerprintBits is the widest supported fingerprint. Slots are
	// stored as uint32.
	maxFingerprintBits = 32
)

// numBucketsFor returns the bucket count for a filter designed to hold
// maxNumKeys fingerprints with slotsPerBucket slots per bucket: the
// smallest power of two covering the capacity, doubled if the resulting
// design load would exceed maxLoadFactor.
func numBucketsFor(maxNumKeys uint64, slotsPerBucket uint32) uint64 {
	spb := uint64(slotsPerBucket)
	numBuckets := nextPowerOf2((maxNumKeys + spb - 1) / spb)

	load := float64(maxNumKeys) / float64(numBuckets*spb)
	if load > maxLoadFactor {
		numBuckets <<= 1
	}
	return numBuckets
}

// EstimateFalsePositiveRate returns the theoretical upper bound on the
// false positive rate for a filter with the given fingerprint width and
// bucket size: 2b/2^f, the probability that a lookup probing 2b slots
// matches an f-bit fingerprint by chance.
func EstimateFalsePositiveRate(fingerprintBits, slotsPerBucket uint32) float64 {
	return float64(2*slotsPerBucket) / math.Exp2(float64(fingerprintBits))
}

// nextPowerOf2 returns the smallest power of 2 >= n.
func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
