// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/zhubert/moodring/internal/logger"
)

// AppName is the title used for every notification.
const AppName = "Moodring"

// maxPreview bounds the reply excerpt shown in the notification body.
const maxPreview = 80

type notifyFunc func(title, message string, icon any) error

var notifier notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. Used by tests.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores the beeep backend.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// ReplyReady announces a bot reply. The body is the first line of the
// reply, shortened to a readable length.
func ReplyReady(reply string) error {
	return Send(AppName, preview(reply))
}

func preview(reply string) string {
	line := reply
	for i, r := range reply {
		if r == '\n' {
			line = reply[:i]
			break
		}
	}
	runes := []rune(line)
	if len(runes) > maxPreview {
		return string(runes[:maxPreview-1]) + "…"
	}
	if line == "" {
		return "New reply"
	}
	return line
}
