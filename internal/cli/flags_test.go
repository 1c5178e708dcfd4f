package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"EnvFile", flags.EnvFile, ".env"},
		{"InputFile", flags.InputFile, "base-translations.json"},
		{"OutputFile", flags.OutputFile, "zh-translations.json"},
		{"BatchSize", flags.BatchSize, 10},
		{"Provider", flags.Provider, "openai"},
		{"SourceLanguage", flags.SourceLanguage, "English"},
		{"TargetLanguage", flags.TargetLanguage, "Simplified Chinese"},
		{"Timeout", flags.Timeout, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Reduced", flags.Reduced},
		{"Progress", flags.Progress},
		{"ListModels", flags.ListModels},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"HistoryDB", flags.HistoryDB},
		{"Model", flags.Model},
		{"BaseURL", flags.BaseURL},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}

	if flags.MaxBatches != 0 || flags.MaxConsecutiveFailures != 0 {
		t.Errorf("MaxBatches = %d, MaxConsecutiveFailures = %d, want 0", flags.MaxBatches, flags.MaxConsecutiveFailures)
	}
}
