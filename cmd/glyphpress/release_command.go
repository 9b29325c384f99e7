package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyphpress/internal/release"
)

func newReleaseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "release <tag>",
		Short: "Publish the hosted release for an existing tag",
		Long: "Renders the changelog for the given tag and creates (or updates) the\n" +
			"hosted release with the configured artifacts attached. Useful for\n" +
			"recovering a run that tagged successfully but failed to upload.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			tag := args[0]

			generator, err := ctx.newChangelog(nil)
			if err != nil {
				return err
			}
			body, err := generator.Render(cmd.Context(), tag)
			if err != nil {
				return err
			}

			publisher, err := release.New(cfg, logger)
			if err != nil {
				return err
			}
			if err := publisher.Publish(cmd.Context(), tag, body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Release %s published with %d assets\n", tag, len(cfg.Release.Artifacts))
			return nil
		},
	}
}
