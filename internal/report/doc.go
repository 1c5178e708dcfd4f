// Package report defines the output document of a translation run and
// reads and writes it as JSON.
package report
