package buildtool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"glyphpress/internal/config"
	"glyphpress/internal/logging"
	"glyphpress/internal/services"
)

var commandContext = exec.CommandContext

// Runner defines font build behaviour.
type Runner interface {
	Build(ctx context.Context) error
}

// Option configures the CLI runner.
type Option func(*CLI)

// WithCommand overrides the default build command.
func WithCommand(command string, args ...string) Option {
	return func(c *CLI) {
		if command != "" {
			c.command = command
			c.args = args
		}
	}
}

// WithLogger attaches a logger for build output streaming.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logging.NewComponentLogger(logger, "build")
	}
}

// CLI wraps the external font build toolchain.
type CLI struct {
	command  string
	args     []string
	workDir  string
	manifest string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewCLI constructs a runner from configuration.
func NewCLI(cfg *config.Config, opts ...Option) *CLI {
	cli := &CLI{
		command:  cfg.Build.Command,
		args:     append([]string(nil), cfg.Build.Args...),
		workDir:  cfg.Paths.WorkDir,
		manifest: cfg.Build.Manifest,
		timeout:  time.Duration(cfg.Build.Timeout) * time.Second,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Build runs the toolchain in the working directory. The dependency manifest
// must be present before the command starts; toolchain failure is fatal.
func (c *CLI) Build(ctx context.Context) error {
	if strings.TrimSpace(c.workDir) == "" {
		return services.Wrap(services.ErrConfiguration, "build", "", "working directory required", nil)
	}
	manifestPath := filepath.Join(c.workDir, c.manifest)
	if c.manifest != "" {
		if _, err := os.Stat(manifestPath); err != nil {
			return services.Wrap(services.ErrConfiguration, "build", "manifest", fmt.Sprintf("dependency manifest %s unavailable", manifestPath), err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := commandContext(ctx, c.command, c.args...) //nolint:gosec
	cmd.Dir = c.workDir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	c.logger.Info("build started",
		logging.String("command", c.command),
		logging.String("args", strings.Join(c.args, " ")),
		logging.String("work_dir", c.workDir))

	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "build", "start", c.command, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		c.logger.Debug("build output", logging.String("line", line))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read build output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrExternalTool, "build", "run", "build timed out", ctx.Err())
		}
		return services.Wrap(services.ErrExternalTool, "build", "run", c.command, err)
	}

	c.logger.Info("build completed", logging.String("command", c.command))
	return nil
}

var _ Runner = (*CLI)(nil)
