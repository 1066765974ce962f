package infrastructure

import (
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

const appName = "downtube"

// NotificationService handles sending desktop notifications
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config: config,
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if n.config == nil || !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	var name string
	var args []string
	switch n.config.Method {
	case "osascript":
		name = "osascript"
		args = []string{"-e", fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(message), escapeAppleScript(title))}
	case "notify-send":
		name = "notify-send"
		args = []string{"--app-name=" + appName, title, message}
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err := n.run(name, args...); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", name),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))

	return nil
}

// NotifyRunFinished sends the end-of-run summary
func (n *NotificationService) NotifyRunFinished(downloaded, failed int) {
	title := "Downloads Finished"
	message := fmt.Sprintf("Downloaded %d items", downloaded)
	if failed > 0 {
		message += fmt.Sprintf(", %d failed", failed)
	}
	n.Send(title, message)
}

// NotifyDownloadFailed sends notification when a single URL fails
func (n *NotificationService) NotifyDownloadFailed(url string, err error) {
	title := "Download Failed"
	message := fmt.Sprintf("Failed: %s", truncateString(url, 40))
	if err != nil {
		message += ": " + truncateString(err.Error(), 60)
	}
	n.Send(title, message)
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
