package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"glyphpress/internal/buildtool"
	"glyphpress/internal/fetch"
	"glyphpress/internal/gitrepo"
	"glyphpress/internal/notifications"
	"glyphpress/internal/pipeline"
	"glyphpress/internal/release"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one full pipeline pass (fetch, build, detect, publish)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			repo, err := ctx.openRepo()
			if err != nil {
				return fmt.Errorf("open working repository: %w", err)
			}

			releaser, err := release.New(cfg, logger)
			if err != nil {
				return err
			}
			generator, err := ctx.newChangelog(nil)
			if err != nil {
				return err
			}

			p := pipeline.New(cfg,
				fetch.New(cfg, logger),
				buildtool.NewCLI(cfg, buildtool.WithLogger(logger)),
				repo,
				gitrepo.NewPublisher(repo, cfg.Git, cfg.GitHub.Token, logger),
				generator,
				releaser,
				notifications.NewService(cfg),
				logger,
			)

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			outcome, err := p.Run(signalCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !outcome.Updated {
				fmt.Fprintf(out, "No changes detected (run %s, %s)\n", outcome.RunID, outcome.Duration.Round(time.Second))
				return nil
			}
			fmt.Fprintf(out, "Published %s (run %s, %s)\n", outcome.Tag, outcome.RunID, outcome.Duration.Round(time.Second))
			return nil
		},
	}
}
