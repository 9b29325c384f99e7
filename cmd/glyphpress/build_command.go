package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyphpress/internal/buildtool"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild font artifacts from the mirrored sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runner := buildtool.NewCLI(cfg, buildtool.WithLogger(logger))
			if err := runner.Build(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Build completed")
			return nil
		},
	}
}
