package resolve

import (
	"fmt"
	"log/slog"
)

// Output is the append-only, line-oriented progress sink shown to the
// requester while builds are resolved. Message content is human-readable
// and non-contractual.
type Output interface {
	Sayf(format string, args ...any)
}

// logOutput writes progress lines through the structured logger.
type logOutput struct {
	logger *slog.Logger
}

// NewLogOutput returns an Output that emits progress lines via slog.
func NewLogOutput(logger *slog.Logger) Output {
	if logger == nil {
		logger = slog.Default()
	}
	return &logOutput{logger: logger}
}

func (o *logOutput) Sayf(format string, args ...any) {
	o.logger.Info(fmt.Sprintf(format, args...))
}
