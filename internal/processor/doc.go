// Package processor runs a translation job: it loads the source file,
// splits it into batches, translates the batches one after another and
// writes the merged output document. A failed batch is recorded and
// skipped; only configuration, input and output failures abort a run.
package processor
