package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/output"
	"github.com/jackzampolin/bookindex/internal/svcctx"
)

var watchOut string

var watchCmd = &cobra.Command{
	Use:   "watch <document>",
	Short: "Rebuild the index whenever the config file changes",
	Long: `Build the index once, then rebuild it every time the config file is saved.

Useful while tuning toc.start_page, chapters.count or the term settings.
Changes that arrive during a build are coalesced into one rebuild.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := svcctx.LoggerFrom(ctx)
		mgr := svcctx.ConfigFrom(ctx)

		if mgr.File() == "" {
			return errors.New("watch needs a config file: run 'bookindex config init' or pass --config")
		}
		cfg, err := runConfig(cmd)
		if err != nil {
			return err
		}

		changed := make(chan struct{}, 1)
		mgr.OnChange(func(*config.Config) { notify(changed) })
		mgr.WatchConfig()
		logger.Info("watching config", "path", mgr.File())

		build := func(cfg *config.Config) {
			res, err := buildIndex(ctx, args[0], cfg, "")
			output.Summary(cmd.ErrOrStderr(), res, err)
			if err != nil {
				output.Guidance(cmd.ErrOrStderr(), err)
				return
			}
			if err := writeResult(ctx, cmd.OutOrStdout(), watchOut, res, cfg); err != nil {
				logger.Error("failed to write index", "error", err)
			}
		}

		build(cfg)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
				logger.Info("config changed, rebuilding")
				build(effective(cmd, mgr.Get()))
			}
		}
	},
}

// notify queues at most one pending rebuild. The rebuild reads the latest
// config, so dropped signals lose nothing.
func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func init() {
	addRunFlags(watchCmd)
	watchCmd.Flags().StringVar(&watchOut, "out", "", "write the index to this file instead of stdout")
}
