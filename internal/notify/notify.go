package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Notifier sends desktop notifications.
type Notifier struct {
	Enabled bool

	// run executes the platform command; tests replace it.
	run func(name string, args ...string) error
}

// Send displays a notification. It is a no-op when disabled or on platforms
// without a supported notifier.
func (n *Notifier) Send(title, message string) error {
	if n == nil || !n.Enabled {
		return nil
	}
	name, args, ok := command(runtime.GOOS, title, message)
	if !ok {
		return nil
	}
	run := n.run
	if run == nil {
		run = func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		}
	}
	if err := run(name, args...); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func command(goos, title, message string) (string, []string, bool) {
	switch goos {
	case "darwin":
		title = strings.ReplaceAll(title, `"`, `\"`)
		message = strings.ReplaceAll(message, `"`, `\"`)
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
		return "osascript", []string{"-e", script}, true
	case "linux":
		return "notify-send", []string{title, message}, true
	default:
		return "", nil, false
	}
}

// FormatSessionComplete formats the notification sent when a questionnaire is finished.
func FormatSessionComplete(sessionID, dominant, weakest string) (title, message string) {
	title = "NEO profile ready"
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	message = fmt.Sprintf("Session %s: most pronounced %s, least pronounced %s", short, dominant, weakest)
	return title, message
}

// FormatSessionPaused formats the notification sent when a session is saved unfinished.
func FormatSessionPaused(answered, total int) (title, message string) {
	return "NEO questionnaire paused", fmt.Sprintf("%d/%d statements answered", answered, total)
}
