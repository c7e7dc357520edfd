// Package cuckoo provides a cuckoo filter: a space-efficient probabilistic
// set that tests whether an element is a member, with support for deletion.
//
// Like a bloom filter, a cuckoo filter can return false positives but never
// false negatives – if the filter says an element is not present, it
// definitely is not. Unlike a bloom filter, elements can be deleted, and at
// comparable false positive rates the filter uses less space.
//
// # Architecture
//
// The filter stores short fingerprints instead of the elements themselves.
// Memory is divided into a power-of-two number of buckets, each holding a
// small fixed number of fingerprint slots (four by default). Every element
// maps to exactly two candidate buckets using partial-key cuckoo hashing:
//
//	fp = low fingerprint-size bits of hash(element)   (never zero)
//	i1 = high bits of hash(element) mod numBuckets
//	i2 = i1 XOR (hash(fp) mod numBuckets)
//
// Because XOR is self-inverse, i1 is recoverable from i2 and the
// fingerprint alone. That is what makes deletion and relocation possible:
// a fingerprint can always be moved to its other legal bucket without
// rehashing the original element, which the filter does not keep.
//
// When both candidate buckets are full, insertion evicts a randomly chosen
// resident fingerprint to its alternate bucket, possibly displacing
// another, for up to 500 relocations. If the walk fails the insert returns
// [ErrFull] and the filter is left holding exactly the fingerprints it held
// before the attempt.
//
// # Choosing Parameters
//
// Use [New] with the number of elements you expect to store and the number
// of bits to retain per fingerprint:
//
//	// Filter for 1 million items with 16-bit fingerprints
//	f, err := cuckoo.New(1_000_000, 16)
//
// The false positive rate is bounded by 2b/2^f, where b is the number of
// slots per bucket and f is the fingerprint width. With the default four
// slots per bucket:
//
//	8 bits  -> ~3.1%
//	12 bits -> ~0.20%
//	16 bits -> ~0.012%
//
// Memory usage is roughly f bits per slot, with the slot count rounded up
// to the next power-of-two bucket count. Construction over-provisions so
// the design load factor stays below 96%; past that point eviction chains
// lengthen sharply and inserts begin to fail.
//
// # Deletion
//
// [Filter.Delete] removes one copy of the element's fingerprint. Deletion
// matches on the fingerprint, not the element, so it must only be used for
// elements known to have been inserted and not already deleted; deleting an
// element that was never inserted can remove the fingerprint of a colliding
// live element and introduce a false negative for it.
//
// # Thread Safety
//
// Filter is NOT thread-safe. Concurrent mutation requires external
// synchronization (single-writer discipline). All nondeterminism during
// eviction comes from an explicit random source that can be fixed with
// [WithRandSource] to reproduce exact eviction sequences.
//
// # Pluggable Hashing
//
// The wide element hash and the fingerprint scramble are injected
// strategies ([Hasher] and [FingerprintHash]), defaulting to 128-bit and
// 64-bit xxh3. Substitute them with [WithHasher] and [WithFingerprintHash]
// to use a different hash function without touching filter logic.
//
// # References
//
//   - Cuckoo Filter: Practically Better Than Bloom (Fan, Andersen,
//     Kaminsky, Mitzenmacher): https://www.cs.cmu.edu/~dga/papers/cuckoo-conext2014.pdf
package cuckoo
