package batch

import "fmt"

const (
	// DefaultSize is the number of entries sent in one request
	DefaultSize = 10

	// ReducedRunBatches is the batch limit of a reduced run, used to check
	// prompt and output before paying for a full run
	ReducedRunBatches = 2
)

// Batch is a contiguous slice of the source. Keys and Values have the same
// length and Values[i] is the text of Keys[i].
type Batch struct {
	Index  int
	Keys   []string
	Values []string
}

// Len returns the number of entries in the batch
func (b Batch) Len() int {
	return len(b.Keys)
}

// Partition splits the source into batches of at most size entries,
// preserving order. The last batch may be shorter.
func Partition(src *Source, size int) ([]Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}

	entries := src.Entries()
	batches := make([]Batch, 0, (len(entries)+size-1)/size)

	for start := 0; start < len(entries); start += size {
		end := min(start+size, len(entries))

		b := Batch{
			Index:  len(batches),
			Keys:   make([]string, 0, end-start),
			Values: make([]string, 0, end-start),
		}
		for _, e := range entries[start:end] {
			b.Keys = append(b.Keys, e.Key)
			b.Values = append(b.Values, e.Value)
		}
		batches = append(batches, b)
	}

	return batches, nil
}

// Limit keeps the first max batches. A max of zero or less keeps all of them.
func Limit(batches []Batch, max int) []Batch {
	if max <= 0 || max >= len(batches) {
		return batches
	}
	return batches[:max]
}
