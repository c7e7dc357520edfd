// Command analysis sweeps cuckoo filter parameter combinations and reports
// measured behavior against the theoretical false positive bound. For each
// fingerprint width and bucket size it builds a filter, fills it to its
// design capacity, then probes with an equal number of keys that were never
// inserted.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gmcabrita/cuckoo"
)

const numKeys = 100_000

func main() {
	w := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "fp bits\tslots/bucket\tbuckets\tload\tfailed inserts\tmeasured FP\ttheoretical FP")

	for _, bits := range []uint32{8, 12, 16, 24, 32} {
		for _, slots := range []uint32{2, 4, 8} {
			row, err := sweep(bits, slots)
			if err != nil {
				fmt.Fprintf(os.Stderr, "analysis: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintln(w, row)
		}
	}
	w.Flush()
}

func sweep(bits, slots uint32) (string, error) {
	f, err := cuckoo.New(numKeys, bits, cuckoo.WithSlotsPerBucket(slots))
	if err != nil {
		return "", err
	}

	var failed int
	for i := range numKeys {
		if err := f.Insert(fmt.Appendf(nil, "key-%d", i)); err != nil {
			failed++
		}
	}

	var falsePositives int
	for i := range numKeys {
		if f.Contains(fmt.Appendf(nil, "notkey-%d", i)) {
			falsePositives++
		}
	}

	return fmt.Sprintf("%d\t%d\t%d\t%.3f\t%d\t%.6f\t%.6f",
		bits, slots, f.NumBuckets(), f.LoadFactor(), failed,
		float64(falsePositives)/float64(numKeys),
		cuckoo.EstimateFalsePositiveRate(bits, slots)), nil
}
