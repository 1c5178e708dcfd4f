package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/locbatch/internal"
)

// Metadata summarizes a run
type Metadata struct {
	Timestamp  string `json:"timestamp"`
	TotalItems int    `json:"total_items"`
	Errors     int    `json:"errors"`
}

// Document is the single output file of a run
type Document struct {
	Metadata     Metadata      `json:"metadata"`
	Translations *Translations `json:"translations"`
	Errors       []string      `json:"errors"`
}

// NewDocument assembles a document, filling the metadata counts
func NewDocument(now time.Time, translations *Translations, errs []string) *Document {
	if translations == nil {
		translations = NewTranslations()
	}
	if errs == nil {
		errs = []string{}
	}

	return &Document{
		Metadata: Metadata{
			Timestamp:  now.Format(time.RFC3339Nano),
			TotalItems: translations.Len(),
			Errors:     len(errs),
		},
		Translations: translations,
		Errors:       errs,
	}
}

// Encode returns the indented JSON form with non-ASCII text kept literal
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode output document: %w", err)
	}
	return internal.UnescapeLineSeparators(buf.Bytes()), nil
}

// WriteFile writes the document to path, creating parent directories
func WriteFile(path string, d *Document) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// ReadFile loads a document written by WriteFile
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}

	d := &Document{Translations: NewTranslations()}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse output file %s: %w", path, err)
	}
	if d.Translations == nil {
		d.Translations = NewTranslations()
	}
	if d.Errors == nil {
		d.Errors = []string{}
	}
	return d, nil
}
