package pos

import "log/slog"

// Notifier is the single port for operator-facing notices. Handlers never know
// which adapter is behind it.
type Notifier interface {
	Notify(title, message string)
}

// SlogNotifier surfaces notices through the service log.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Notify(title, message string) {
	n.logger.Warn("operator notice", "title", title, "message", message)
}
