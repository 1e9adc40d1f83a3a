// Package main is the highpitch command line: the onboarding tour, the
// filler word chart and the session inbox.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"highpitch/internal/logging"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	// Logger
	logger *zap.Logger
)

// interactiveAnnotation marks commands that take over the terminal. They
// get a no-op CLI logger so nothing is printed over the UI.
const interactiveAnnotation = "interactive"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "highpitch",
	Short: "highpitch - speaking practice feedback in the terminal",
	Long: `highpitch shows which filler words you lean on while practicing a talk.

Practice sessions arrive as JSON or YAML files from the transcriber and are
kept in a local SQLite database. The first launch walks through a short tour
that also records your speaking pace.

Run without arguments to open the tour (first launch) or the session list.`,
	Annotations: map[string]string{interactiveAnnotation: "true"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[interactiveAnnotation] == "true" {
			logger = zap.NewNop()
			return nil
		}

		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runHome,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.highpitch/config.yaml)")

	onboardCmd.Flags().BoolVar(&onboardReset, "reset", false, "Clear the completion flag and start the tour over")

	chartCmd.Flags().BoolVar(&chartText, "text", false, "Print a one-line summary instead of opening the chart")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "png or svg (default: from the output extension)")
	exportCmd.Flags().IntVar(&exportSize, "size", 0, "Canvas size in pixels (default: chart.export_size)")
	_ = exportCmd.MarkFlagRequired("output")

	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Maximum number of sessions to list (0 for all)")
	sessionsCmd.AddCommand(sessionsDeleteCmd)

	rootCmd.AddCommand(
		onboardCmd,
		chartCmd,
		exportCmd,
		importCmd,
		watchCmd,
		sessionsCmd,
		statusCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
