package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newChangelogCommand(ctx *commandContext) *cobra.Command {
	var glyphs bool

	cmd := &cobra.Command{
		Use:   "changelog <tag>",
		Short: "Render the changelog for a published tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var override *bool
			if cmd.Flags().Changed("glyphs") {
				override = &glyphs
			}
			generator, err := ctx.newChangelog(override)
			if err != nil {
				return err
			}
			text, err := generator.Render(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&glyphs, "glyphs", false, "Include per-UFO glyph diff sections")
	return cmd
}
