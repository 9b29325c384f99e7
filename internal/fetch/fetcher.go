package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"glyphpress/internal/config"
	"glyphpress/internal/fileutil"
	"glyphpress/internal/logging"
	"glyphpress/internal/services"
)

const userAgent = "glyphpress/0.1.0"

// Client downloads upstream font sources into the working tree.
type Client struct {
	http    *http.Client
	workDir string
	sources []config.Source
	logger  *slog.Logger
}

// New constructs a fetch client from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.Upstream.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		workDir: cfg.Paths.WorkDir,
		sources: cfg.Upstream.Sources,
		logger:  logging.NewComponentLogger(logger, "fetch"),
	}
}

// Fetch downloads every configured source. Unchanged upstream content leaves
// the working tree byte-identical; any download or unpack failure aborts.
func (c *Client) Fetch(ctx context.Context) error {
	for _, src := range c.sources {
		if err := c.fetchOne(ctx, src); err != nil {
			return services.Wrap(services.ErrExternalTool, "fetch", src.Name, "download upstream source", err)
		}
	}
	return nil
}

func (c *Client) fetchOne(ctx context.Context, src config.Source) error {
	tmp, err := c.download(ctx, src.URL)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if src.Unpack {
		written, total, err := unpackZip(tmp, filepath.Join(c.workDir, destDir(src)))
		if err != nil {
			return err
		}
		c.logger.Info("source unpacked",
			logging.String("source", src.Name),
			logging.Int("entries", total),
			logging.Int("written", written))
		return nil
	}

	data, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("read download: %w", err)
	}
	target := filepath.Join(c.workDir, destFile(src))
	changed, err := fileutil.WriteFileIfChanged(target, data, 0o644)
	if err != nil {
		return err
	}
	c.logger.Info("source fetched",
		logging.String("source", src.Name),
		logging.String("path", target),
		logging.Bool("changed", changed))
	return nil
}

func (c *Client) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp("", "glyphpress-fetch-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// destDir resolves the unpack destination relative to the work dir.
func destDir(src config.Source) string {
	if src.Dest == "" || src.Dest == "." {
		return "."
	}
	return filepath.Clean(src.Dest)
}

// destFile resolves the file destination, falling back to the URL basename.
func destFile(src config.Source) string {
	if src.Dest != "" && src.Dest != "." {
		return filepath.Clean(src.Dest)
	}
	if parsed, err := url.Parse(src.URL); err == nil {
		if base := path.Base(parsed.Path); base != "." && base != "/" {
			return base
		}
	}
	return src.Name
}
