package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"

	"envoi/internal/logging"
	"envoi/internal/services"
)

// TimestampLayout is the fixed ISO-8601 form used for every rendered date.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// DescribeExecutionAPI is the subset of the Step Functions client used to inspect.
type DescribeExecutionAPI interface {
	DescribeExecution(ctx context.Context, params *sfn.DescribeExecutionInput, optFns ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error)
}

// Record is a described execution with its embedded documents decoded.
// Input and Output hold the decoded JSON value, the raw string when it could
// not be decoded, or nil when the service returned nothing.
type Record struct {
	Handle          Handle
	StateMachineARN string
	Name            string
	Status          string
	StartDate       *time.Time
	StopDate        *time.Time
	RedriveDate     *time.Time
	Error           string
	Cause           string
	TraceHeader     string
	Input           any
	Output          any

	outputDecoded bool
}

// HasOutput reports whether the record carries a decoded output document.
func (r *Record) HasOutput() bool {
	return r != nil && r.outputDecoded
}

// Inspector reads executions back from the service.
type Inspector struct {
	api    DescribeExecutionAPI
	logger *slog.Logger
}

// NewInspector wraps api.
func NewInspector(api DescribeExecutionAPI, logger *slog.Logger) *Inspector {
	return &Inspector{api: api, logger: logging.NewComponentLogger(logger, "inspector")}
}

// Describe fetches the execution identified by handle and decodes its input
// and output documents when present.
func (i *Inspector) Describe(ctx context.Context, handle Handle) (*Record, error) {
	logger := i.logger.With(logging.String(logging.FieldExecutionARN, handle.String()))
	resp, err := i.api.DescribeExecution(ctx, &sfn.DescribeExecutionInput{
		ExecutionArn: aws.String(handle.String()),
	})
	if err != nil {
		remote := services.RemoteDetail(err)
		logger.Error("describe execution failed",
			logging.String(logging.FieldErrorCode, remote.Code),
			logging.Error(err),
		)
		return nil, &services.LookupError{Handle: handle.String(), Remote: remote, Err: err}
	}

	record := &Record{
		Handle:          Handle(aws.ToString(resp.ExecutionArn)),
		StateMachineARN: aws.ToString(resp.StateMachineArn),
		Name:            aws.ToString(resp.Name),
		Status:          string(resp.Status),
		StartDate:       resp.StartDate,
		StopDate:        resp.StopDate,
		RedriveDate:     resp.RedriveDate,
		Error:           aws.ToString(resp.Error),
		Cause:           aws.ToString(resp.Cause),
		TraceHeader:     aws.ToString(resp.TraceHeader),
	}
	if record.Handle == "" {
		record.Handle = handle
	}

	var ok bool
	record.Input, ok = decodeEmbedded(resp.Input)
	if !ok && resp.Input != nil {
		logger.Debug("execution input is not JSON; leaving it as text")
	}
	record.Output, record.outputDecoded = decodeEmbedded(resp.Output)
	if !record.outputDecoded && resp.Output != nil {
		logger.Debug("execution output is not JSON; leaving it as text")
	}
	logger.Debug("described execution", logging.String("status", record.Status))
	return record, nil
}

// decodeEmbedded parses a JSON-in-string field. Absent fields return nil;
// undecodable ones return the raw text. ok is true only for decoded JSON.
func decodeEmbedded(raw *string) (any, bool) {
	if raw == nil {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(*raw)))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return *raw, false
	}
	if dec.More() {
		return *raw, false
	}
	return value, true
}

// Document is the rendered form of a Record.
type Document struct {
	ExecutionARN    string  `json:"executionArn"`
	StateMachineARN string  `json:"stateMachineArn,omitempty"`
	Name            string  `json:"name,omitempty"`
	Status          string  `json:"status,omitempty"`
	StartDate       *string `json:"startDate,omitempty"`
	StopDate        *string `json:"stopDate,omitempty"`
	RedriveDate     *string `json:"redriveDate,omitempty"`
	Input           any     `json:"input,omitempty"`
	Output          any     `json:"output,omitempty"`
	Error           string  `json:"error,omitempty"`
	Cause           string  `json:"cause,omitempty"`
	TraceHeader     string  `json:"traceHeader,omitempty"`
}

// Document renders the full record with every date in TimestampLayout.
func (r *Record) Document() Document {
	return Document{
		ExecutionARN:    r.Handle.String(),
		StateMachineARN: r.StateMachineARN,
		Name:            r.Name,
		Status:          r.Status,
		StartDate:       formatTime(r.StartDate),
		StopDate:        formatTime(r.StopDate),
		RedriveDate:     formatTime(r.RedriveDate),
		Input:           normalizeTimes(r.Input),
		Output:          normalizeTimes(r.Output),
		Error:           r.Error,
		Cause:           r.Cause,
		TraceHeader:     r.TraceHeader,
	}
}

// FormatTimestamp renders t in TimestampLayout, in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := FormatTimestamp(*t)
	return &s
}

// normalizeTimes walks a decoded structure and replaces time values with
// their fixed textual form.
func normalizeTimes(v any) any {
	switch val := v.(type) {
	case time.Time:
		return FormatTimestamp(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return FormatTimestamp(*val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = normalizeTimes(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = normalizeTimes(child)
		}
		return out
	default:
		return v
	}
}
