package cli

import (
	"time"

	"codeberg.org/snonux/locbatch/internal/batch"
	"codeberg.org/snonux/locbatch/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	EnvFile    string
	InputFile  string
	OutputFile string
	BatchSize  int
	MaxBatches int
	Reduced    bool
	HistoryDB  string
	Progress   bool
	ListModels bool

	// Translation backend flags
	Provider               string
	Model                  string
	BaseURL                string
	SourceLanguage         string
	TargetLanguage         string
	Timeout                time.Duration
	MaxConsecutiveFailures int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		EnvFile:        ".env",
		InputFile:      "base-translations.json",
		OutputFile:     "zh-translations.json",
		BatchSize:      batch.DefaultSize,
		Provider:       translation.ProviderOpenAI,
		SourceLanguage: translation.DefaultSourceLanguage,
		TargetLanguage: translation.DefaultTargetLanguage,
		Timeout:        translation.DefaultTimeout,
	}
}
