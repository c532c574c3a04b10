package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tabnorm/tabnorm/pkg/config"
	"github.com/tabnorm/tabnorm/pkg/ingest"
	"github.com/tabnorm/tabnorm/pkg/manifest"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:   "tabnorm",
	Short: "Normalize tabular transaction statements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [flags] <input_path>...",
	Short: "Normalize statement files into typed transaction rows",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if err := cliFilters.validate(); err != nil {
			return err
		}
		logger := newLogger(cfg)

		noHeader, _ := cmd.Flags().GetBool("no-header")
		mappingFile, _ := cmd.Flags().GetString("mapping")
		dump, _ := cmd.Flags().GetBool("dump")

		opts := ingest.Options{HasHeader: cfg.Header && !noHeader}
		if mappingFile != "" {
			mapping, err := loadMapping(mappingFile)
			if err != nil {
				return err
			}
			opts.Mapping = mapping
			opts.HasHeader = false
		}

		processor := newFileProcessor(logger, cfg, &cliFilters, dump)

		for _, arg := range args {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				logger.Warn("no files found matching pattern, skipping", "pattern", arg)
				continue
			}
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					logger.Warn("failed to stat file", "error", err, "file", match)
					continue
				}
				if info.IsDir() {
					if err := processor.processDirectory(match, opts); err != nil {
						logger.Warn("failed to process directory", "error", err, "dir", match)
					}
				} else if err := processor.processFile(match, opts); err != nil {
					processor.reportFailure(match, err)
				}
			}
		}
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest_file>",
	Short: "Normalize every statement listed in a YAML manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if err := cliFilters.validate(); err != nil {
			return err
		}
		logger := newLogger(cfg)

		m, err := manifest.FromFile(args[0])
		if err != nil {
			return err
		}

		dump, _ := cmd.Flags().GetBool("dump")
		processor := newFileProcessor(logger, cfg, &cliFilters, dump)

		for _, stmt := range m.Statements {
			path, err := stmt.File()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				logger.Warn("file not found, skipping", "file", path)
				continue
			}
			opts := ingest.Options{
				HasHeader: stmt.HasHeader,
				Mapping:   stmt.ColumnMapping(),
			}
			if err := processor.processFile(path, opts); err != nil {
				processor.reportFailure(path, err)
			}
		}
		return nil
	},
}

func newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tabnorm",
		Level:           level,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("output", "", "Output directory (default: print to stdout)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("dump", false, "Pretty-print the raw result for debugging")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum amount")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum amount")
	rootCmd.PersistentFlags().StringVar(&cliFilters.status, "status", "", "Filter by status (case insensitive)")

	ingestCmd.Flags().Bool("no-header", false, "Treat the first row as data and infer columns")
	ingestCmd.Flags().String("mapping", "", "YAML file with an explicit column mapping (implies --no-header)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
