package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"keyscribe/internal/cli"
	"keyscribe/internal/config"
	"keyscribe/internal/rotate"
	"keyscribe/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show today's calls per API key and model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		paths, err := profilePaths()
		if err != nil {
			return err
		}
		cfg := config.Load(paths)
		d := usage.NewLedger(paths.Usage).Read()
		fmt.Fprint(cmd.OutOrStdout(), cli.RenderUsage(d, cfg.APIKeys(), rotate.DailyCap))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}
