package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/output"
	"github.com/jackzampolin/bookindex/internal/svcctx"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bookindex configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to the home directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h := svcctx.HomeFrom(cmd.Context())
		if err := h.EnsureExists(); err != nil {
			return err
		}
		path := h.ConfigPath()
		if h.ConfigExists() && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := svcctx.ConfigFrom(cmd.Context())
		if path := mgr.File(); path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "# from %s\n", path)
		}
		f := format()
		if !f.IsStructured() {
			f = output.FormatYAML
		}
		return output.Encode(cmd.OutOrStdout(), f, mgr.Get())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of one key",
	Long: `Print the effective value of one key after file, environment and
default values are merged.

Example:
  bookindex config get toc.header_marker`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := config.ValidateKey(key); err != nil {
			return err
		}
		mgr := svcctx.ConfigFrom(cmd.Context())
		if f := format(); f.IsStructured() {
			return output.Encode(cmd.OutOrStdout(), f, map[string]any{key: mgr.Value(key)})
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%v\n", mgr.Value(key))
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
}
