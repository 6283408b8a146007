// ABOUTME: User-facing notification emission for marketplace services
// ABOUTME: Stand-in for the UI toast layer; services emit, presentation is out of scope

package notify

import "log/slog"

// Notifier receives transient user-facing notifications emitted by services.
// Presentation (toasts, badges) belongs to the consuming frontend.
type Notifier interface {
	Notify(title, body string)
}

// LogNotifier writes notifications to structured logs.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notify")}
}

// Notify logs the notification at info level.
func (n *LogNotifier) Notify(title, body string) {
	n.logger.Info("notification", "title", title, "body", body)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Notifications []Notification
}

// Notification is a single captured title/body pair.
type Notification struct {
	Title string
	Body  string
}

// Notify appends the notification to the recorded list.
func (r *Recorder) Notify(title, body string) {
	r.Notifications = append(r.Notifications, Notification{Title: title, Body: body})
}

// Titles returns the captured titles in emission order.
func (r *Recorder) Titles() []string {
	titles := make([]string, len(r.Notifications))
	for i, n := range r.Notifications {
		titles[i] = n.Title
	}
	return titles
}

// Verify both implementations satisfy Notifier at compile time.
var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*Recorder)(nil)
)
