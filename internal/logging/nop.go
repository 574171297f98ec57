package logging

import "github.com/arloliu/subsample/types"

// NopLogger discards all log messages.
//
// It is the default logger for every component built without WithLogger.
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop returns a logger that performs no operations.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(_ string, _ ...any) {}

func (n *NopLogger) Info(_ string, _ ...any) {}

func (n *NopLogger) Warn(_ string, _ ...any) {}

func (n *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message and does NOT exit.
func (n *NopLogger) Fatal(_ string, _ ...any) {}
