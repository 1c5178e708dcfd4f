package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"codeberg.org/snonux/locbatch/internal"
	"codeberg.org/snonux/locbatch/internal/batch"
	"codeberg.org/snonux/locbatch/internal/report"
	"codeberg.org/snonux/locbatch/internal/translation"
)

// Options controls a run
type Options struct {
	InputFile  string
	OutputFile string
	BatchSize  int // entries per request, must be positive
	MaxBatches int // zero processes every batch

	Log      io.Writer // diagnostics, os.Stderr when nil
	Progress bool      // render a progress bar instead of per-batch lines

	Now func() time.Time // clock for the output timestamp
}

// Result describes a finished run
type Result struct {
	Document     *report.Document
	Outcomes     []BatchOutcome
	SourceItems  int
	TotalBatches int // before the batch limit was applied
}

// Succeeded returns the number of batches that were translated
func (r *Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusOK {
			n++
		}
	}
	return n
}

// Processor runs translation jobs
type Processor struct {
	opts       Options
	translator *translation.Translator
}

// NewProcessor creates a processor that sends batches through translator
func NewProcessor(opts Options, translator *translation.Translator) *Processor {
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Processor{
		opts:       opts,
		translator: translator,
	}
}

// Run translates the input file and writes the output document. The
// returned error is fatal: the input could not be loaded or the output
// could not be written. Batch failures are reported in the document.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	p.infof("Processing file: %s\n", p.opts.InputFile)

	src, err := batch.ReadSourceFile(p.opts.InputFile)
	if err != nil {
		return nil, err
	}
	p.infof("Read %d entries from input file\n", src.Len())

	batches, err := batch.Partition(src, p.opts.BatchSize)
	if err != nil {
		return nil, err
	}
	p.infof("Split %d entries into %d batches\n", src.Len(), len(batches))

	totalBatches := len(batches)
	batches = batch.Limit(batches, p.opts.MaxBatches)
	if len(batches) < totalBatches {
		p.infof("Reduced run: processing only the first %d of %d batches\n", len(batches), totalBatches)
	}

	var bar *progressbar.ProgressBar
	if p.opts.Progress && len(batches) > 0 {
		bar = progressbar.NewOptions(len(batches),
			progressbar.OptionSetWriter(p.opts.Log),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Translating"),
		)
	}

	acc := newAccumulator()
	outcomes := make([]BatchOutcome, 0, len(batches))
	for _, b := range batches {
		p.infof("Processing batch %d/%d (%d entries)\n", b.Index+1, len(batches), b.Len())

		outcome := p.translateBatch(ctx, b)
		if outcome.Status == StatusFailed {
			fmt.Fprintf(p.opts.Log, "\nError: %s\n", formatBatchError(outcome, len(batches)))
		}

		acc = acc.fold(outcome, len(batches))
		outcomes = append(outcomes, outcome)

		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(p.opts.Log)
	}

	doc := report.NewDocument(p.opts.Now(), acc.translations, acc.errors)
	if err := report.WriteFile(p.opts.OutputFile, doc); err != nil {
		return nil, err
	}

	result := &Result{
		Document:     doc,
		Outcomes:     outcomes,
		SourceItems:  src.Len(),
		TotalBatches: totalBatches,
	}
	p.printSummary(result)

	return result, nil
}

// translateBatch moves one batch from pending to a final status
func (p *Processor) translateBatch(ctx context.Context, b batch.Batch) BatchOutcome {
	outcome := BatchOutcome{Batch: b, Status: StatusPending}
	if b.Len() > 0 {
		p.infof("  First entry: %s\n", internal.Abbreviate(b.Values[0], 60))
	}

	outcome.Status = StatusDispatched
	translated, raw, err := p.translator.TranslateBatch(ctx, b.Keys, b.Values)
	if err != nil {
		var dispatchErr *translation.DispatchError
		if !errors.As(err, &dispatchErr) && raw != "" {
			fmt.Fprintf(p.opts.Log, "  Raw response: %s\n", internal.Abbreviate(raw, 500))
		}
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	p.infof("  Translated %d entries\n", len(translated))
	outcome.Status = StatusOK
	outcome.Translations = translated
	return outcome
}

func (p *Processor) printSummary(r *Result) {
	doc := r.Document
	fmt.Fprintf(p.opts.Log, "\n=== Translation Summary ===\n")
	fmt.Fprintf(p.opts.Log, "Backend: %s\n", p.translator.Backend())
	fmt.Fprintf(p.opts.Log, "Batches: %d/%d succeeded\n", r.Succeeded(), len(r.Outcomes))
	fmt.Fprintf(p.opts.Log, "Translated: %d\n", doc.Metadata.TotalItems)
	fmt.Fprintf(p.opts.Log, "Errors: %d\n", doc.Metadata.Errors)
	for _, e := range doc.Errors {
		fmt.Fprintf(p.opts.Log, "  - %s\n", e)
	}
	fmt.Fprintf(p.opts.Log, "Output: %s\n", p.opts.OutputFile)
	fmt.Fprintf(p.opts.Log, "===========================\n")
}

// infof writes progress lines unless the progress bar is shown
func (p *Processor) infof(format string, args ...interface{}) {
	if p.opts.Progress {
		return
	}
	fmt.Fprintf(p.opts.Log, format, args...)
}
