package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"glyphpress/internal/config"
)

const userAgent = "Glyphpress-Go/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyReleasePublished(ctx context.Context, tag string, assetCount int) error
	NotifyNoChanges(ctx context.Context) error
	NotifyRunFailed(ctx context.Context, err error, stage string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyReleasePublished(ctx context.Context, tag string, assetCount int) error {
	tag = strings.TrimSpace(tag)
	data := payload{
		title:    "Glyphpress - Release Published",
		message:  fmt.Sprintf("Release %s published with %d assets", tag, assetCount),
		tags:     []string{"glyphpress", "release", "published"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyNoChanges(ctx context.Context) error {
	data := payload{
		title:   "Glyphpress - No Changes",
		message: "Upstream sources are unchanged; nothing to publish",
		tags:    []string{"glyphpress", "run", "unchanged"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, err error, stage string) error {
	var builder strings.Builder
	builder.WriteString("Run failed")
	if stage = strings.TrimSpace(stage); stage != "" {
		builder.WriteString(" during ")
		builder.WriteString(stage)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Glyphpress - Error",
		message:  builder.String(),
		tags:     []string{"glyphpress", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Glyphpress - Test",
		message:  "Notification system test",
		tags:     []string{"glyphpress", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyReleasePublished(context.Context, string, int) error { return nil }
func (noopService) NotifyNoChanges(context.Context) error                     { return nil }
func (noopService) NotifyRunFailed(context.Context, error, string) error      { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
