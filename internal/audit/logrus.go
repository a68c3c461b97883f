package audit

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogrusSink forwards audit events to a logrus logger as structured
// fields. Failed operations log at warn level, everything else at info.
type LogrusSink struct {
	logger *logrus.Logger
}

func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusSink{logger: logger}
}

func (s *LogrusSink) Emit(_ context.Context, event Event) {
	if s == nil || s.logger == nil {
		return
	}

	fields := logrus.Fields{
		"event_type": event.EventType,
		"success":    event.Success,
	}
	if event.UserID != "" {
		fields["user_id"] = event.UserID
	}
	if event.Role != "" {
		fields["role"] = event.Role
	}
	if event.TargetID != "" {
		fields["target_id"] = event.TargetID
	}
	if event.Decision != "" {
		fields["decision"] = event.Decision
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := s.logger.WithFields(fields)
	if event.Success {
		entry.Info("audit")
	} else {
		entry.Warn("audit")
	}
}
