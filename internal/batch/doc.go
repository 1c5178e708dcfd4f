// Package batch loads the flat key/value source file and splits it into
// ordered, fixed-size batches for translation.
package batch
