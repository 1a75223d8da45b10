package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vilaca/teamboard/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "teamboard",
	Short: "Team board rendering Jira issues by workflow status",
	Long: `teamboard serves a board of Jira issues, one column per workflow status.
Each column is an HTML fragment built from a live JQL search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
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

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration file",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.PathFromEnv(), "path to the YAML configuration (env TEAMBOARD_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config OK: %s\n", configPath)
	fmt.Fprintf(out, "  tracker:       %s (%s auth)\n", cfg.IssueTracker.URL, cfg.IssueTracker.AuthScheme)
	fmt.Fprintf(out, "  project:       %s\n", cfg.IssueTracker.Project)
	fmt.Fprintf(out, "  project field: %s\n", cfg.IssueTracker.ProjectField)
	fmt.Fprintf(out, "  color groups:  %d\n", len(cfg.Projects))
	return nil
}
