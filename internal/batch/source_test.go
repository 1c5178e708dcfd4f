package batch

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadSourceFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		wantKeys    []string
		wantEntries []SourceEntry
		wantErr     bool
	}{
		{
			name:        "empty object",
			fileContent: `{}`,
			wantKeys:    []string{},
			wantEntries: []SourceEntry{},
		},
		{
			name:        "keeps file order",
			fileContent: `{"zeta": "Last letter", "alpha": "First letter", "mid": "Middle"}`,
			wantKeys:    []string{"zeta", "alpha", "mid"},
			wantEntries: []SourceEntry{
				{Key: "zeta", Value: "Last letter"},
				{Key: "alpha", Value: "First letter"},
				{Key: "mid", Value: "Middle"},
			},
		},
		{
			name:        "placeholders and escapes survive",
			fileContent: `{"greet": "Hi {{name}}\nWelcome :star: *back*"}`,
			wantKeys:    []string{"greet"},
			wantEntries: []SourceEntry{
				{Key: "greet", Value: "Hi {{name}}\nWelcome :star: *back*"},
			},
		},
		{
			name:        "duplicate key keeps first position and last value",
			fileContent: `{"a": "one", "b": "two", "a": "three"}`,
			wantKeys:    []string{"a", "b"},
			wantEntries: []SourceEntry{
				{Key: "a", Value: "three"},
				{Key: "b", Value: "two"},
			},
		},
		{
			name:        "malformed json",
			fileContent: `{"a": "one",`,
			wantErr:     true,
		},
		{
			name:        "top level array",
			fileContent: `["a", "b"]`,
			wantErr:     true,
		},
		{
			name:        "nested object value",
			fileContent: `{"a": {"b": "c"}}`,
			wantErr:     true,
		},
		{
			name:        "number value",
			fileContent: `{"a": 1}`,
			wantErr:     true,
		},
		{
			name:        "trailing data",
			fileContent: `{"a": "b"} {"c": "d"}`,
			wantErr:     true,
		},
		{
			name:        "empty file",
			fileContent: ``,
			wantErr:     true,
		},
		{
			name:        "invalid utf-8",
			fileContent: "{\"a\": \"bad\xff\"}",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "source.json")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadSourceFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadSourceFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInput) {
					t.Errorf("Expected error to wrap ErrInput, got %v", err)
				}
				return
			}

			if !reflect.DeepEqual(got.Keys(), tt.wantKeys) {
				t.Errorf("Keys() = %v, want %v", got.Keys(), tt.wantKeys)
			}
			if !reflect.DeepEqual(got.Entries(), tt.wantEntries) {
				t.Errorf("Entries() = %v, want %v", got.Entries(), tt.wantEntries)
			}
			if got.Len() != len(tt.wantKeys) {
				t.Errorf("Len() = %d, want %d", got.Len(), len(tt.wantKeys))
			}
		})
	}
}

func TestReadSourceFile_FileNotFound(t *testing.T) {
	_, err := ReadSourceFile("/nonexistent/source.json")
	if err == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if !errors.Is(err, ErrInput) {
		t.Errorf("Expected ErrInput, got %v", err)
	}
}

func TestSourceEntriesIsCopy(t *testing.T) {
	src := NewSource()
	src.Add("a", "Hello")

	entries := src.Entries()
	entries[0].Value = "modified"

	if src.Entries()[0].Value != "Hello" {
		t.Error("Source was modified through returned entries")
	}
}
