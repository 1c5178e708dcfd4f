package processor

import (
	"fmt"

	"codeberg.org/snonux/locbatch/internal/batch"
	"codeberg.org/snonux/locbatch/internal/report"
)

// Status is the state of one batch within a run
type Status string

const (
	StatusPending    Status = "pending"
	StatusDispatched Status = "dispatched"
	StatusOK         Status = "ok"
	StatusFailed     Status = "failed"
)

// BatchOutcome is the result of translating one batch. Exactly one of
// Translations and Err is set once the batch reached a final status.
type BatchOutcome struct {
	Batch        batch.Batch
	Status       Status
	Translations map[string]string
	Err          error
}

// accumulator is the run state folded over the batch outcomes
type accumulator struct {
	translations *report.Translations
	errors       []string
}

func newAccumulator() accumulator {
	return accumulator{
		translations: report.NewTranslations(),
		errors:       []string{},
	}
}

// fold merges one outcome. Keys are added in batch order, so the merged
// translations follow source order.
func (a accumulator) fold(o BatchOutcome, total int) accumulator {
	switch o.Status {
	case StatusOK:
		for _, key := range o.Batch.Keys {
			a.translations.Set(key, o.Translations[key])
		}
	case StatusFailed:
		a.errors = append(a.errors, formatBatchError(o, total))
	}
	return a
}

func formatBatchError(o BatchOutcome, total int) string {
	return fmt.Sprintf("batch %d/%d: %v", o.Batch.Index+1, total, o.Err)
}
