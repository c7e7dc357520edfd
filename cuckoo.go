package cuckoo

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrFull is returned by Insert when the fingerprint could not be
	// placed even after the bounded eviction walk. The filter's contents
	// are unchanged.
	ErrFull = errors.New("cuckoo: filter is full")

	// ErrNotFound is returned by Delete when neither candidate bucket
	// holds the element's fingerprint.
	ErrNotFound = errors.New("cuckoo: fingerprint not found")

	// ErrInvalidMaxNumKeys is returned by New when the requested capacity
	// is too small to size a filter.
	ErrInvalidMaxNumKeys = errors.New("cuckoo: max number of keys must be greater than 2")

	// ErrInvalidFingerprintBits is returned by New when the fingerprint
	// width is outside the supported range.
	ErrInvalidFingerprintBits = errors.New("cuckoo: fingerprint size must be between 1 and 32 bits")

	// ErrInvalidSlotsPerBucket is returned by New when the per-bucket slot
	// count is zero.
	ErrInvalidSlotsPerBucket = errors.New("cuckoo: slots per bucket must be at least 1")

	// ErrInvalidMaxKicks is returned by New when the eviction bound is
	// zero.
	ErrInvalidMaxKicks = errors.New("cuckoo: max kicks must be at least 1")
)

// Default PCG seed. Eviction order is deterministic unless the caller
// injects a different source with WithRandSource.
const (
	defaultSeed1 = 0x9e3779b97f4a7c15
	defaultSeed2 = 0x2545f4914f6cdd1d
)

// Filter is a non-thread-safe cuckoo filter: an approximate-membership set
// that supports insertion, lookup, and deletion with a small, tunable false
// positive rate and no false negatives for live elements.
//
// The filter stores short fingerprints instead of elements. Each element
// maps to exactly two candidate buckets via partial-key cuckoo hashing: the
// alternate index is the home index XORed with a hash of the fingerprint,
// so the relation is symmetric and a stored fingerprint can be relocated
// between its two buckets without the original element.
type Filter struct {
	slots           []uint32 // Flat slot array; bucket i is slots[i*spb : (i+1)*spb]
	numBuckets      uint64   // Power of two
	mask            uint64   // numBuckets - 1, for index reduction
	slotsPerBucket  uint32
	fingerprintBits uint32
	fpMask          uint32   // Low fingerprintBits set
	maxNumKeys      uint64   // Design capacity at construction
	maxKicks        uint32
	count           uint64   // Number of stored fingerprints
	hasher          Hasher
	fpHash          FingerprintHash
	rng             *rand.Rand
}

// Option configures a Filter at construction time.
type Option func(*Filter)

// WithSlotsPerBucket overrides the number of fingerprint slots per bucket.
// The default is DefaultSlotsPerBucket. Typical values are 2 through 8;
// more slots raise the sustainable load factor and the false positive rate.
func WithSlotsPerBucket(n uint32) Option {
	return func(f *Filter) { f.slotsPerBucket = n }
}

// WithMaxKicks overrides the eviction bound. The default is
// DefaultMaxKicks.
func WithMaxKicks(n uint32) Option {
	return func(f *Filter) { f.maxKicks = n }
}

// WithHasher overrides the element hash. The default is XXH3.
func WithHasher(h Hasher) Option {
	return func(f *Filter) { f.hasher = h }
}

// WithFingerprintHash overrides the secondary hash used to derive the
// alternate bucket index from a fingerprint.
func WithFingerprintHash(h FingerprintHash) Option {
	return func(f *Filter) { f.fpHash = h }
}

// WithRandSource overrides the randomness behind victim bucket and slot
// selection during eviction. Fixing the source makes eviction walks fully
// reproducible.
func WithRandSource(src rand.Source) Option {
	return func(f *Filter) { f.rng = rand.New(src) }
}

// New creates a filter sized to hold maxNumKeys elements with
// fingerprintBits bits retained per element. maxNumKeys must be greater
// than 2 and fingerprintBits must be between 1 and 32.
//
// The bucket count is the smallest power of two covering the capacity at
// DefaultSlotsPerBucket slots per bucket (or the WithSlotsPerBucket
// override), doubled if the design load factor would exceed 96%.
func New(maxNumKeys uint64, fingerprintBits uint32, opts ...Option) (*Filter, error) {
	f := &Filter{
		slotsPerBucket:  DefaultSlotsPerBucket,
		fingerprintBits: fingerprintBits,
		maxNumKeys:      maxNumKeys,
		maxKicks:        DefaultMaxKicks,
		hasher:          XXH3{},
		fpHash:          xxh3Fingerprint,
	}
	for _, opt := range opts {
		opt(f)
	}

	if maxNumKeys <= 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxNumKeys, maxNumKeys)
	}
	if fingerprintBits < 1 || fingerprintBits > maxFingerprintBits {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFingerprintBits, fingerprintBits)
	}
	if f.slotsPerBucket < 1 {
		return nil, ErrInvalidSlotsPerBucket
	}
	if f.maxKicks < 1 {
		return nil, ErrInvalidMaxKicks
	}

	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(defaultSeed1, defaultSeed2))
	}

	f.numBuckets = numBucketsFor(maxNumKeys, f.slotsPerBucket)
	f.mask = f.numBuckets - 1
	f.fpMask = uint32(uint64(1)<<fingerprintBits - 1)
	f.slots = make([]uint32, f.numBuckets*uint64(f.slotsPerBucket))

	return f, nil
}

// bucket returns the slot window for bucket i.
func (f *Filter) bucket(i uint64) bucket {
	spb := uint64(f.slotsPerBucket)
	return bucket(f.slots[i*spb : (i+1)*spb])
}

// fingerprintOf derives a non-zero fingerprint from the low half of the
// element hash. Zero is reserved as the empty-slot sentinel, so a
// fingerprint that masks to zero is coerced to 1.
func (f *Filter) fingerprintOf(lo uint64) uint32 {
	fp := uint32(lo) & f.fpMask
	if fp == emptySlot {
		fp = 1
	}
	return fp
}

// altIndex returns the other candidate bucket for fp given one of its
// candidate indices. XOR is self-inverse, so applying altIndex twice
// returns the original index.
func (f *Filter) altIndex(i uint64, fp uint32) uint64 {
	return i ^ (f.fpHash(fp) & f.mask)
}

// Insert adds an element to the filter. It returns ErrFull if the
// fingerprint could not be placed in either candidate bucket even after
// evicting up to MaxKicks resident fingerprints; in that case the filter's
// contents are unchanged. Inserting the same element twice stores its
// fingerprint twice.
func (f *Filter) Insert(data []byte) error {
	hi, lo := f.hasher.Hash(data)
	return f.insert(hi, lo)
}

// InsertString adds a string element to the filter without allocating.
func (f *Filter) InsertString(s string) error {
	hi, lo := f.hasher.HashString(s)
	return f.insert(hi, lo)
}

func (f *Filter) insert(hi, lo uint64) error {
	fp := f.fingerprintOf(lo)
	i1 := hi & f.mask

	if j, ok := f.bucket(i1).hasRoom(); ok {
		f.bucket(i1).set(j, fp)
		f.count++
		return nil
	}

	i2 := f.altIndex(i1, fp)
	if j, ok := f.bucket(i2).hasRoom(); ok {
		f.bucket(i2).set(j, fp)
		f.count++
		return nil
	}

	return f.evict(fp, i1, i2)
}

// kick records one eviction swap so a failed walk can be unwound.
type kick struct {
	bucket uint64
	slot   int
}

// evict runs the bounded relocation walk with both candidate buckets full.
// Starting from a randomly chosen victim bucket, it swaps the incoming
// fingerprint into a random slot and carries the displaced fingerprint to
// its alternate bucket, repeating until a bucket with room is found or
// maxKicks swaps have been made. On failure every swap is reversed, slot
// by slot, so the filter holds exactly the fingerprints present before the
// attempt.
func (f *Filter) evict(fp uint32, i1, i2 uint64) error {
	idx := i1
	if f.rng.IntN(2) == 1 {
		idx = i2
	}

	path := make([]kick, 0, 16)
	for range f.maxKicks {
		slot := f.rng.IntN(int(f.slotsPerBucket))
		b := f.bucket(idx)
		fp, b[slot] = b[slot], fp
		path = append(path, kick{bucket: idx, slot: slot})

		idx = f.altIndex(idx, fp)
		if j, ok := f.bucket(idx).hasRoom(); ok {
			f.bucket(idx).set(j, fp)
			f.count++
			return nil
		}
	}

	// Unwind. Re-swapping in reverse order restores every displaced
	// fingerprint to the slot it came from.
	for i := len(path) - 1; i >= 0; i-- {
		b := f.bucket(path[i].bucket)
		fp, b[path[i].slot] = b[path[i].slot], fp
	}
	return ErrFull
}

// Contains reports whether the element might be in the filter. A true
// result may be a false positive (a fingerprint collision); a false result
// is definitive. Elements that were successfully inserted and not deleted
// are always reported present.
func (f *Filter) Contains(data []byte) bool {
	hi, lo := f.hasher.Hash(data)
	return f.contains(hi, lo)
}

// ContainsString is Contains for string keys, without allocating.
func (f *Filter) ContainsString(s string) bool {
	hi, lo := f.hasher.HashString(s)
	return f.contains(hi, lo)
}

func (f *Filter) contains(hi, lo uint64) bool {
	fp := f.fingerprintOf(lo)
	i1 := hi & f.mask
	if f.bucket(i1).contains(fp) {
		return true
	}
	return f.bucket(f.altIndex(i1, fp)).contains(fp)
}

// Delete removes one copy of the element's fingerprint from the filter. It
// returns ErrNotFound if neither candidate bucket holds the fingerprint.
//
// Deletion matches on the fingerprint, not the original element: if two
// distinct live elements collide on the same fingerprint and share a
// reachable bucket, deleting one may remove the slot belonging to the
// other. Only delete elements known to have been inserted and not already
// deleted.
func (f *Filter) Delete(data []byte) error {
	hi, lo := f.hasher.Hash(data)
	return f.delete(hi, lo)
}

// DeleteString is Delete for string keys, without allocating.
func (f *Filter) DeleteString(s string) error {
	hi, lo := f.hasher.HashString(s)
	return f.delete(hi, lo)
}

func (f *Filter) delete(hi, lo uint64) error {
	fp := f.fingerprintOf(lo)
	i1 := hi & f.mask
	if j, ok := f.bucket(i1).find(fp); ok {
		f.bucket(i1).reset(j)
		f.count--
		return nil
	}

	i2 := f.altIndex(i1, fp)
	if j, ok := f.bucket(i2).find(fp); ok {
		f.bucket(i2).reset(j)
		f.count--
		return nil
	}
	return ErrNotFound
}

// Reset clears all stored fingerprints without reallocating.
func (f *Filter) Reset() {
	clear(f.slots)
	f.count = 0
}

// Count returns the number of fingerprints currently stored.
func (f *Filter) Count() uint64 {
	return f.count
}

// NumBuckets returns the number of buckets. It is always a power of two
// and fixed for the lifetime of the filter.
func (f *Filter) NumBuckets() uint64 {
	return f.numBuckets
}

// SlotsPerBucket returns the number of fingerprint slots per bucket.
func (f *Filter) SlotsPerBucket() uint32 {
	return f.slotsPerBucket
}

// FingerprintBits returns the number of bits retained per fingerprint.
func (f *Filter) FingerprintBits() uint32 {
	return f.fingerprintBits
}

// MaxNumKeys returns the design capacity the filter was constructed for.
func (f *Filter) MaxNumKeys() uint64 {
	return f.maxNumKeys
}

// MaxKicks returns the eviction bound.
func (f *Filter) MaxKicks() uint32 {
	return f.maxKicks
}

// Capacity returns the total number of fingerprint slots.
func (f *Filter) Capacity() uint64 {
	return f.numBuckets * uint64(f.slotsPerBucket)
}

// LoadFactor returns the fraction of slots currently occupied.
func (f *Filter) LoadFactor() float64 {
	return float64(f.count) / float64(f.Capacity())
}

// EstimatedFalsePositiveRate returns the theoretical false positive bound
// for this filter's fingerprint width and bucket size.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.fingerprintBits, f.slotsPerBucket)
}

// OpError is the panic value raised by the Must variants. It carries the
// failed action, the element involved, and the underlying sentinel error.
type OpError struct {
	Action  string // "insert" or "delete"
	Element []byte
	Err     error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("cuckoo: %s %q: %v", e.Action, e.Element, e.Err)
}

// Unwrap returns the underlying sentinel error (ErrFull or ErrNotFound).
func (e *OpError) Unwrap() error {
	return e.Err
}

// MustInsert is like Insert but panics with an *OpError if the filter is
// full.
func (f *Filter) MustInsert(data []byte) {
	if err := f.Insert(data); err != nil {
		panic(&OpError{Action: "insert", Element: data, Err: err})
	}
}

// MustInsertString is like InsertString but panics with an *OpError if the
// filter is full.
func (f *Filter) MustInsertString(s string) {
	if err := f.InsertString(s); err != nil {
		panic(&OpError{Action: "insert", Element: []byte(s), Err: err})
	}
}

// MustDelete is like Delete but panics with an *OpError if the fingerprint
// is not present.
func (f *Filter) MustDelete(data []byte) {
	if err := f.Delete(data); err != nil {
		panic(&OpError{Action: "delete", Element: data, Err: err})
	}
}

// MustDeleteString is like DeleteString but panics with an *OpError if the
// fingerprint is not present.
func (f *Filter) MustDeleteString(s string) {
	if err := f.DeleteString(s); err != nil {
		panic(&OpError{Action: "delete", Element: []byte(s), Err: err})
	}
}
