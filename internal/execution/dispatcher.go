package execution

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"

	"envoi/internal/logging"
	"envoi/internal/services"
)

// Handle identifies one dispatched execution. Its format is owned by the
// service and never inspected here.
type Handle string

func (h Handle) String() string { return string(h) }

// StartExecutionAPI is the subset of the Step Functions client used to submit.
type StartExecutionAPI interface {
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
}

// Dispatcher submits execution documents. It never retries.
type Dispatcher struct {
	api    StartExecutionAPI
	logger *slog.Logger
}

// NewDispatcher wraps api.
func NewDispatcher(api StartExecutionAPI, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{api: api, logger: logging.NewComponentLogger(logger, "dispatcher")}
}

// Submit encodes req and starts one execution of target.
func (d *Dispatcher) Submit(ctx context.Context, target string, req Request) (Handle, error) {
	encoded, err := req.Encode()
	if err != nil {
		return "", err
	}
	d.logger.Debug("submitting execution request",
		logging.String(logging.FieldJobName, req.Transcribe.TranscriptionJobName),
		logging.Int("languages", len(req.Translate.Languages)),
	)
	return d.start(ctx, target, encoded)
}

// Start encodes an arbitrary document and starts one execution of target.
func (d *Dispatcher) Start(ctx context.Context, target string, document any) (Handle, error) {
	data, err := marshalCompact(document)
	if err != nil {
		return "", fmt.Errorf("encode execution input: %w", err)
	}
	return d.start(ctx, target, string(data))
}

func (d *Dispatcher) start(ctx context.Context, target, input string) (Handle, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", services.Wrap(services.ErrConfiguration, "dispatcher", "start execution", "state machine arn is required", nil)
	}
	logger := d.logger.With(logging.String(logging.FieldStateMachineARN, target))
	logger.Debug("starting execution", logging.String("input", input))

	resp, err := d.api.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(target),
		Input:           aws.String(input),
	})
	if err != nil {
		remote := services.RemoteDetail(err)
		logger.Error("start execution failed",
			logging.String(logging.FieldErrorCode, remote.Code),
			logging.Error(err),
		)
		return "", &services.DispatchError{Target: target, Remote: remote, Err: err}
	}
	handle := Handle(aws.ToString(resp.ExecutionArn))
	logger.Info("execution started", logging.String(logging.FieldExecutionARN, handle.String()))
	return handle, nil
}
