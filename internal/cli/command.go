package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/locbatch/internal"
	"codeberg.org/snonux/locbatch/internal/batch"
	"codeberg.org/snonux/locbatch/internal/translation"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "locbatch",
		Short: "Batch translator for localization JSON files",
		Long: `locbatch translates a flat key/value localization JSON file with a
large language model. Strings are sent in batches of --batch-size to a
chat completion endpoint; placeholders such as {{name}}, :icon: tokens,
\n escapes and *markdown* are kept verbatim.

The output file holds the merged translations, the errors of failed
batches and run metadata. A failed batch never stops the run.

Examples:
  locbatch                                  # base-translations.json -> zh-translations.json
  locbatch -i en.json -o de.json --target-lang German
  locbatch --reduced                        # only the first two batches
  locbatch --provider gemini --model gemini-2.0-flash
  locbatch history                          # list recorded runs`,
		Args:         cobra.NoArgs,
		Version:      internal.Version,
		SilenceUsage: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(CreateHistoryCommand(flags))
	rootCmd.AddCommand(CreateShowCommand())

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.locbatch.yaml)")
	cmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", flags.EnvFile, "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().StringVar(&flags.HistoryDB, "history-db", "", "SQLite database recording run history (disabled when empty)")

	// Local flags
	cmd.Flags().StringVarP(&flags.InputFile, "input", "i", flags.InputFile, "Source JSON file (flat key -> text object)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", flags.OutputFile, "Output JSON file")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", flags.BatchSize, "Number of strings per request")
	cmd.Flags().IntVar(&flags.MaxBatches, "max-batches", 0, "Process at most this many batches (0 = all)")
	cmd.Flags().BoolVar(&flags.Reduced, "reduced", false, fmt.Sprintf("Reduced run: process only the first %d batches", batch.ReducedRunBatches))
	cmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar instead of per-batch log lines")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List chat models available at the configured endpoint")

	// Translation backend flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation backend: openai or gemini")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model name (default: $OPENAI_MODEL or gpt-3.5-turbo)")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "API base URL (default: $OPENAI_API_BASE or https://api.openai.com/v1)")
	cmd.Flags().StringVar(&flags.SourceLanguage, "source-lang", flags.SourceLanguage, "Language of the source texts")
	cmd.Flags().StringVar(&flags.TargetLanguage, "target-lang", flags.TargetLanguage, "Language to translate into")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout of a single request")
	cmd.Flags().IntVar(&flags.MaxConsecutiveFailures, "max-consecutive-failures", 0, "Skip remaining requests after this many failures in a row (0 = never)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	viper.BindPFlag("batch.size", cmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("batch.max", cmd.Flags().Lookup("max-batches"))
	viper.BindPFlag("history.db", cmd.PersistentFlags().Lookup("history-db"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("translation.source_language", cmd.Flags().Lookup("source-lang"))
	viper.BindPFlag("translation.target_language", cmd.Flags().Lookup("target-lang"))
	viper.BindPFlag("translation.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("translation.max_consecutive_failures", cmd.Flags().Lookup("max-consecutive-failures"))
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment. Variables that are already set win. A missing file is fine.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".locbatch" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".locbatch")
	}

	// Environment variables
	viper.SetEnvPrefix("LOCBATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// providerEnv names the conventional environment variables of a backend
type providerEnv struct {
	apiKey  string
	baseURL string
	model   string
}

func envFor(provider string) providerEnv {
	if provider == translation.ProviderGemini {
		return providerEnv{apiKey: "GEMINI_API_KEY", baseURL: "GEMINI_API_BASE", model: "GEMINI_MODEL"}
	}
	return providerEnv{apiKey: "OPENAI_API_KEY", baseURL: "OPENAI_API_BASE", model: "OPENAI_MODEL"}
}

// GetAPIKey retrieves the API key of provider from environment or config
func GetAPIKey(provider string) string {
	// First check environment variable
	if key := os.Getenv(envFor(provider).apiKey); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString(provider + ".api_key")
}

// BuildConfig resolves the translation settings from flags, environment
// and config file. Precedence: explicit flag, environment, config file,
// default. Warnings about missing optional settings go to logw.
func BuildConfig(flags *Flags, logw io.Writer) (*translation.Config, error) {
	provider := viper.GetString("translation.provider")
	if provider == "" {
		provider = flags.Provider
	}
	env := envFor(provider)

	// The conventional variables of the backend rank with LOCBATCH_* ones
	viper.BindEnv("translation.base_url", "LOCBATCH_TRANSLATION_BASE_URL", env.baseURL)
	viper.BindEnv("translation.model", "LOCBATCH_TRANSLATION_MODEL", env.model)

	cfg := translation.Config{
		Provider:               provider,
		APIKey:                 GetAPIKey(provider),
		BaseURL:                viper.GetString("translation.base_url"),
		Model:                  viper.GetString("translation.model"),
		SourceLanguage:         viper.GetString("translation.source_language"),
		TargetLanguage:         viper.GetString("translation.target_language"),
		Timeout:                viper.GetDuration("translation.timeout"),
		MaxConsecutiveFailures: viper.GetInt("translation.max_consecutive_failures"),
	}

	if cfg.BaseURL == "" && provider == translation.ProviderOpenAI {
		fmt.Fprintf(logw, "Warning: %s not set, using default %s\n", env.baseURL, translation.DefaultOpenAIBaseURL)
	}

	resolved, err := translation.NewConfig(cfg)
	if err != nil {
		if errors.Is(err, translation.ErrMissingAPIKey) {
			return nil, fmt.Errorf("%w: set %s or %s.api_key in the config file", err, env.apiKey, provider)
		}
		return nil, err
	}
	return resolved, nil
}

// BatchLimit returns the number of batches to process, zero meaning all
func BatchLimit(flags *Flags) int {
	if flags.Reduced {
		return batch.ReducedRunBatches
	}
	return viper.GetInt("batch.max")
}
