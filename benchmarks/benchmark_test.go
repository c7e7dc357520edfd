package benchmarks

import (
	"errors"
	"fmt"
	"testing"

	bab "github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/gmcabrita/cuckoo"
	seiflotfy "github.com/seiflotfy/cuckoofilter"
)

const (
	benchItems = 1_000_000
	benchBits  = 16
	// bloomFPRate is chosen to match the cuckoo filter's theoretical
	// bound at 16-bit fingerprints and 4 slots per bucket, so the bloom
	// baseline is sized for a comparable error rate.
	bloomFPRate = 0.0001220703125
)

// Pre-generate test data to avoid measuring string generation
var testKeys [][]byte
var testKeysStr []string

func init() {
	testKeys = make([][]byte, benchItems)
	testKeysStr = make([]string, benchItems)
	for i := range benchItems {
		s := fmt.Sprintf("key-%d", i)
		testKeys[i] = []byte(s)
		testKeysStr[i] = s
	}
}

func newFilter(b *testing.B, opts ...cuckoo.Option) *cuckoo.Filter {
	f, err := cuckoo.New(benchItems, benchBits, opts...)
	if err != nil {
		b.Fatal(err)
	}
	return f
}

// fill inserts every test key, ignoring the handful of failures that can
// occur near the design load factor.
func fill(f *cuckoo.Filter) {
	for i := range benchItems {
		_ = f.Insert(testKeys[i])
	}
}

// ============================================================================
// Sequential Insert Benchmarks
// ============================================================================

func BenchmarkInsertSequential_Cuckoo(b *testing.B) {
	f := newFilter(b)
	b.ResetTimer()
	for i := range b.N {
		if err := f.Insert(testKeys[i%benchItems]); errors.Is(err, cuckoo.ErrFull) {
			f.Reset()
		}
	}
}

func BenchmarkInsertSequential_CuckooString(b *testing.B) {
	f := newFilter(b)
	b.ResetTimer()
	for i := range b.N {
		if err := f.InsertString(testKeysStr[i%benchItems]); errors.Is(err, cuckoo.ErrFull) {
			f.Reset()
		}
	}
}

func BenchmarkInsertSequential_Seiflotfy(b *testing.B) {
	f := seiflotfy.NewFilter(benchItems)
	b.ResetTimer()
	for i := range b.N {
		if !f.Insert(testKeys[i%benchItems]) {
			f.Reset()
		}
	}
}

func BenchmarkInsertSequential_BloomBaseline(b *testing.B) {
	f := bab.NewWithEstimates(benchItems, bloomFPRate)
	b.ResetTimer()
	for i := range b.N {
		f.Add(testKeys[i%benchItems])
	}
}

// ============================================================================
// Sequential Lookup Benchmarks
// ============================================================================

func BenchmarkLookupSequential_Cuckoo(b *testing.B) {
	f := newFilter(b)
	fill(f)
	b.ResetTimer()
	for i := range b.N {
		f.Contains(testKeys[i%benchItems])
	}
}

func BenchmarkLookupSequential_CuckooString(b *testing.B) {
	f := newFilter(b)
	fill(f)
	b.ResetTimer()
	for i := range b.N {
		f.ContainsString(testKeysStr[i%benchItems])
	}
}

func BenchmarkLookupSequential_Seiflotfy(b *testing.B) {
	f := seiflotfy.NewFilter(benchItems)
	for i := range benchItems {
		f.Insert(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.Lookup(testKeys[i%benchItems])
	}
}

func BenchmarkLookupSequential_BloomBaseline(b *testing.B) {
	f := bab.NewWithEstimates(benchItems, bloomFPRate)
	for i := range benchItems {
		f.Add(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.Test(testKeys[i%benchItems])
	}
}

// ============================================================================
// Delete Benchmarks (delete + reinsert to keep occupancy stable)
// ============================================================================

func BenchmarkDelete_Cuckoo(b *testing.B) {
	f := newFilter(b)
	fill(f)
	b.ResetTimer()
	for i := range b.N {
		key := testKeys[i%benchItems]
		if err := f.Delete(key); err == nil {
			_ = f.Insert(key)
		}
	}
}

func BenchmarkDelete_Seiflotfy(b *testing.B) {
	f := seiflotfy.NewFilter(benchItems)
	for i := range benchItems {
		f.Insert(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		key := testKeys[i%benchItems]
		if f.Delete(key) {
			f.Insert(key)
		}
	}
}

// ============================================================================
// Memory Allocation Benchmarks
// ============================================================================

func BenchmarkInsertAlloc_Cuckoo(b *testing.B) {
	f := newFilter(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		if err := f.Insert(testKeys[i%benchItems]); errors.Is(err, cuckoo.ErrFull) {
			f.Reset()
		}
	}
}

func BenchmarkLookupAlloc_CuckooString(b *testing.B) {
	f := newFilter(b)
	fill(f)
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		f.ContainsString(testKeysStr[i%benchItems])
	}
}

// ============================================================================
// Hash Strategy Benchmarks
// ============================================================================

// xxhash64Hasher is an alternate Hasher built on 64-bit xxHash. The two
// halves come from independently seeded digests.
type xxhash64Hasher struct{}

const xxhashHiSeed = 0x9747b28c

func (xxhash64Hasher) Hash(data []byte) (hi, lo uint64) {
	lo = xxhash.Sum64(data)
	d := xxhash.NewWithSeed(xxhashHiSeed)
	d.Write(data)
	return d.Sum64(), lo
}

func (xxhash64Hasher) HashString(s string) (hi, lo uint64) {
	lo = xxhash.Sum64String(s)
	d := xxhash.NewWithSeed(xxhashHiSeed)
	d.WriteString(s)
	return d.Sum64(), lo
}

func BenchmarkHasher_XXH3(b *testing.B) {
	f := newFilter(b)
	fill(f)
	b.ResetTimer()
	for i := range b.N {
		f.Contains(testKeys[i%benchItems])
	}
}

func BenchmarkHasher_XXHash64(b *testing.B) {
	f := newFilter(b, cuckoo.WithHasher(xxhash64Hasher{}))
	fill(f)
	b.ResetTimer()
	for i := range b.N {
		f.Contains(testKeys[i%benchItems])
	}
}
