package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyphpress/internal/fetch"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Mirror upstream sources into the working repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client := fetch.New(cfg, logger)
			if err := client.Fetch(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d sources into %s\n", len(cfg.Upstream.Sources), cfg.Paths.WorkDir)
			return nil
		},
	}
}
