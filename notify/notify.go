package notify

import "github.com/rs/zerolog"

// Notifier delivers user-visible notifications. The transport (toast, email,
// websocket push) lives outside this module.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to a structured logger. Useful as a default
// when no delivery transport is wired in.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n *LogNotifier) Success(message string) {
	n.Logger.Info().Str("notification", "success").Msg(message)
}

func (n *LogNotifier) Error(message string) {
	n.Logger.Warn().Str("notification", "error").Msg(message)
}

// Mock provides customizable hooks for testing Notifier behavior.
type Mock struct {
	SuccessFunc func(message string)
	ErrorFunc   func(message string)
}

var _ Notifier = (*Mock)(nil)

// Success calls SuccessFunc if set, otherwise does nothing
func (m *Mock) Success(message string) {
	if m.SuccessFunc != nil {
		m.SuccessFunc(message)
	}
}

// Error calls ErrorFunc if set, otherwise does nothing
func (m *Mock) Error(message string) {
	if m.ErrorFunc != nil {
		m.ErrorFunc(message)
	}
}
