package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skywatch/internal/config"
)

const userAgent = "Skywatch/0.1.0"

// Service defines the notification surface exposed to the monitor and daemon.
type Service interface {
	AnnounceDetection(ctx context.Context, announcement Announcement) error
	NotifyRunFailed(ctx context.Context, err error, label string) error
	NotifyBootstrapRecorded(ctx context.Context, recorded int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by a webhook when
// configured. When no webhook URL is configured, a noop implementation is
// returned.
func NewService(cfg *config.Config) Service {
	endpoint := strings.TrimSpace(cfg.Notifications.WebhookURL)
	if endpoint == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &webhookService{
		endpoint:      endpoint,
		client:        &http.Client{Timeout: timeout},
		announcements: cfg.Notifications.Announcements,
		errors:        cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type webhookService struct {
	endpoint      string
	client        *http.Client
	announcements bool
	errors        bool
}

func (w *webhookService) AnnounceDetection(ctx context.Context, announcement Announcement) error {
	if !w.announcements {
		return nil
	}
	data := payload{
		title:   fmt.Sprintf("Skywatch - New Transient: %s", announcement.TransientID),
		message: announcement.Message(),
		tags:    []string{"skywatch", "transient", "detected"},
	}
	return w.send(ctx, data)
}

func (w *webhookService) NotifyRunFailed(ctx context.Context, err error, contextLabel string) error {
	if !w.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Skywatch - Ingestion Failed",
		message:  builder.String(),
		tags:     []string{"skywatch", "error", "alert"},
		priority: "high",
	}
	return w.send(ctx, data)
}

func (w *webhookService) NotifyBootstrapRecorded(ctx context.Context, recorded int) error {
	if !w.announcements {
		return nil
	}
	data := payload{
		title:   "Skywatch - Bootstrap Complete",
		message: fmt.Sprintf("Recorded %d historical detections without announcement", recorded),
		tags:    []string{"skywatch", "bootstrap", "completed"},
	}
	return w.send(ctx, data)
}

func (w *webhookService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Skywatch - Test",
		message:  "Notification system test",
		tags:     []string{"skywatch", "test"},
		priority: "low",
	}
	return w.send(ctx, data)
}

func (w *webhookService) send(ctx context.Context, data payload) error {
	if w == nil || w.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
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

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) AnnounceDetection(context.Context, Announcement) error { return nil }
func (noopService) NotifyRunFailed(context.Context, error, string) error  { return nil }
func (noopService) NotifyBootstrapRecorded(context.Context, int) error    { return nil }
func (noopService) TestNotification(context.Context) error                { return nil }
