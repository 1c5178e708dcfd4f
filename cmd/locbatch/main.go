package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/locbatch/internal/cli"
	"codeberg.org/snonux/locbatch/internal/ledger"
	"codeberg.org/snonux/locbatch/internal/models"
	"codeberg.org/snonux/locbatch/internal/processor"
	"codeberg.org/snonux/locbatch/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := newRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		if err := cli.LoadEnvFile(flags.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		cli.InitConfig(flags.CfgFile)
	})

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(flags *cli.Flags) *cobra.Command {
	rootCmd := cli.CreateRootCommand(flags)

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}
	return rootCmd
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	logw := cmd.ErrOrStderr()

	// Handle --list-models flag
	if flags.ListModels {
		provider := viper.GetString("translation.provider")
		if provider != translation.ProviderOpenAI {
			return fmt.Errorf("--list-models is only supported for the %s provider", translation.ProviderOpenAI)
		}
		cfg, err := cli.BuildConfig(flags, io.Discard)
		if err != nil {
			return err
		}
		lister := models.NewLister(cfg.APIKey, cfg.BaseURL)
		return lister.PrintChatModels(cmd.Context(), cmd.OutOrStdout())
	}

	cfg, err := cli.BuildConfig(flags, logw)
	if err != nil {
		return err
	}

	dispatcher, err := translation.NewDispatcher(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(logw, "Using %s with model %s (%s -> %s)\n", dispatcher.Name(), cfg.Model, cfg.SourceLanguage, cfg.TargetLanguage)

	opts := processor.Options{
		InputFile:  viper.GetString("input"),
		OutputFile: viper.GetString("output"),
		BatchSize:  viper.GetInt("batch.size"),
		MaxBatches: cli.BatchLimit(flags),
		Log:        logw,
		Progress:   flags.Progress,
	}
	proc := processor.NewProcessor(opts, translation.NewTranslator(cfg, dispatcher))

	startedAt := time.Now()
	result, err := proc.Run(cmd.Context())
	if err != nil {
		return err
	}

	if breaker, ok := dispatcher.(*translation.BreakerDispatcher); ok && breaker.State() != "closed" {
		fmt.Fprintf(logw, "Circuit breaker %s: later batches were skipped without a request\n", breaker.State())
	}

	if dbPath := viper.GetString("history.db"); dbPath != "" {
		// The output is already written, a ledger failure only warns
		if err := recordRun(dbPath, startedAt, opts, cfg, result); err != nil {
			fmt.Fprintf(logw, "Warning: failed to record run history: %v\n", err)
		}
	}
	return nil
}

// recordRun stores the finished run in the history database
func recordRun(dbPath string, startedAt time.Time, opts processor.Options, cfg *translation.Config, result *processor.Result) error {
	l, err := ledger.Open(dbPath)
	if err != nil {
		return err
	}
	defer l.Close()

	records := make([]ledger.BatchRecord, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		record := ledger.BatchRecord{
			Index:   o.Batch.Index,
			Entries: o.Batch.Len(),
			Status:  string(o.Status),
		}
		if o.Err != nil {
			record.Error = o.Err.Error()
		}
		records = append(records, record)
	}

	_, err = l.Record(ledger.Run{
		StartedAt:   startedAt,
		InputFile:   opts.InputFile,
		OutputFile:  opts.OutputFile,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		SourceItems: result.SourceItems,
		Batches:     len(result.Outcomes),
		Translated:  result.Document.Metadata.TotalItems,
		Errors:      result.Document.Metadata.Errors,
	}, records)
	return err
}
