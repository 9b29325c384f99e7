package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyphpress/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check environment readiness and external dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if repo, err := ctx.openRepo(); err == nil {
				rows := [][]string{}
				if head, err := repo.Head(); err == nil {
					rows = append(rows, []string{"HEAD", head.String()[:7]})
				}
				if tag, ok, err := repo.LatestTag(); err == nil && ok {
					rows = append(rows, []string{"Latest tag", tag})
				} else if err == nil {
					rows = append(rows, []string{"Latest tag", "(none)"})
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, "Repository:")
					fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				}
			}

			checks := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(checks))
			failed := 0
			for _, check := range checks {
				mark := "ok"
				if !check.Passed {
					mark = "FAIL"
					failed++
				}
				rows = append(rows, []string{check.Name, mark, check.Detail})
			}
			fmt.Fprintln(out, "Preflight checks:")
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			statuses := preflight.CheckSystemDeps(cfg)
			depRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				available := yesNo(status.Available)
				detail := status.Description
				if status.Detail != "" {
					detail = status.Detail
				}
				depRows = append(depRows, []string{status.Name, status.Command, available, detail})
			}
			fmt.Fprintln(out, "External dependencies:")
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Available", "Detail"}, depRows, nil))

			if failed > 0 {
				return fmt.Errorf("%d preflight checks failed", failed)
			}
			return nil
		},
	}
}
