package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/c00t/storage-poc/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configFile string
	logDir     string
)

var rootCmd = &cobra.Command{
	Use:   "storagectl",
	Short: "Exercise storage-backed containers and report their allocations",
	Long: `storagectl builds strings and lists over the storage-poc storages
(inline arrays, heap, bump arena, anonymous mmap, paged node slots) and reports
length, capacity and allocator traffic after every step.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logs")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "config file (default: ~/.storagectl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write JSON logs to dated files in this directory")
}

// setup loads the configuration and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if err := loadConfig(cfg, configFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts := logger.Options{
		Enabled: verbose || logDir != "",
		LogDir:  logDir,
		Level:   slog.LevelInfo,
	}
	if verbose {
		opts.Level = slog.LevelDebug
		if logDir == "" {
			opts.Writer = os.Stderr
		}
	}
	return logger.Init(opts)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
