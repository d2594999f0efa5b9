package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/config"
	"modelrisk_intake/pkg/core/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	provider   string
	timeout    time.Duration

	// Report flags
	bankName   string
	intakePath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Model-risk documentation intake pipeline",
	Long: `intake runs the document pipeline over local files: text extraction,
section classification, form prefill and report assembly.

Results are written to stdout as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if provider != "" {
			cfg.Agents.ActiveProvider = provider
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <files...>",
	Short: "Extract and classify documents, printing documents and coverage",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

var prefillCmd = &cobra.Command{
	Use:   "prefill <files...>",
	Short: "Classify documents and extract intake field updates",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPrefill,
}

var reportCmd = &cobra.Command{
	Use:   "report <files...>",
	Short: "Classify documents and assemble the model documentation report",
	Long: `Assembles the report from intake data (--intake, a JSON file of
section -> field -> value) and the classified documents. Use --html to
print rendered HTML instead of JSON.`,
	RunE: runReport,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "Override the active LLM provider")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Operation timeout")

	reportCmd.Flags().StringVar(&bankName, "bank", "", "Bank name for the report")
	reportCmd.Flags().StringVar(&intakePath, "intake", "", "Intake data JSON file")
	reportCmd.Flags().Bool("html", false, "Render HTML instead of JSON")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(prefillCmd)
	rootCmd.AddCommand(reportCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
