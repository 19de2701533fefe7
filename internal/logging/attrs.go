package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldExecutionARN identifies a dispatched execution handle.
	FieldExecutionARN = "execution_arn"
	// FieldStateMachineARN identifies the orchestration target.
	FieldStateMachineARN = "state_machine_arn"
	// FieldJobName is the transcription job name carried in a request.
	FieldJobName = "job_name"
	// FieldJobID identifies a bulk copy job.
	FieldJobID = "job_id"
	// FieldBucket and FieldKey locate an object in storage.
	FieldBucket = "bucket"
	FieldKey    = "key"
	// FieldErrorCode carries the remote service error code.
	FieldErrorCode = "error_code"
)

func String(key string, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
