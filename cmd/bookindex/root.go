package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/home"
	"github.com/jackzampolin/bookindex/internal/output"
	"github.com/jackzampolin/bookindex/internal/svcctx"
	"github.com/jackzampolin/bookindex/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "bookindex",
	Short: "Build a back-of-book index from a document's table of contents and text",
	Long: `bookindex builds a flat back-of-book index from a PDF or a pre-extracted page dump.

A run:
  - locates and parses the table of contents into chapter ranges
  - maps physical pages to printed page numbers using the document's page labels
  - collects term candidates from TOC titles, recurring Latin tokens and
    parenthetical glosses such as 색인(index)
  - matches every term back into the page text, one page per chapter,
    and drops terms covered by a longer term`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := output.ParseFormat(outputFormat); err != nil {
			return err
		}

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		mgr, err := config.NewManager(cfgFile, h.Path())
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if err := mgr.BindFlag("log.level", flags.Lookup("log-level")); err != nil {
			return err
		}
		if err := mgr.BindFlag("log.format", flags.Lookup("log-format")); err != nil {
			return err
		}

		logger, err := newLogger(os.Stderr, mgr.Get().Log)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		mgr.SetLogger(logger)

		cmd.SetContext(svcctx.WithServices(cmd.Context(), &svcctx.Services{
			Config: mgr,
			Logger: logger,
			Home:   h,
		}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bookindex/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bookindex home directory (default: ~/.bookindex)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", string(output.DefaultFormat), "output format: text, yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)
	rootCmd.PersistentFlags().StringVar(
		&logFormat, "log-format", "text", "log format: text or json",
	)

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
}

// format returns the validated --output value.
func format() output.Format {
	f, _ := output.ParseFormat(outputFormat)
	return f
}
