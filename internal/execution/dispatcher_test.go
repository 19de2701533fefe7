package execution_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	"envoi/internal/execution"
	"envoi/internal/logging"
	"envoi/internal/services"
	"envoi/internal/testsupport"
)

const stateMachine = "arn:aws:states:us-east-1:123456789012:stateMachine:envoi-transcribe"

func TestSubmitStartsExactlyOneExecution(t *testing.T) {
	api := testsupport.NewStepFunctions()
	dispatcher := execution.NewDispatcher(api, logging.NewNop())

	req, err := execution.NewBuilderWithSuffix(fixedSuffix).Build(execution.Params{
		MediaFileURI:     "s3://bucket/clip.mp4",
		OutputBucketName: "out",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	handle, err := dispatcher.Submit(context.Background(), stateMachine, req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.Contains(handle.String(), ":execution:envoi-transcribe:") {
		t.Fatalf("unexpected handle %q", handle)
	}
	if len(api.Started) != 1 {
		t.Fatalf("expected one StartExecution call, got %d", len(api.Started))
	}
	call := api.Started[0]
	if aws.ToString(call.StateMachineArn) != stateMachine {
		t.Fatalf("unexpected target %q", aws.ToString(call.StateMachineArn))
	}
	wantInput, _ := req.Encode()
	if aws.ToString(call.Input) != wantInput {
		t.Fatalf("unexpected input %s", aws.ToString(call.Input))
	}
}

func TestSubmitWrapsServiceErrors(t *testing.T) {
	api := testsupport.NewStepFunctions()
	api.StartErr = testsupport.APIError("StateMachineDoesNotExist", "State Machine Does Not Exist")
	dispatcher := execution.NewDispatcher(api, logging.NewNop())

	_, err := dispatcher.Submit(context.Background(), stateMachine, execution.Request{})
	var dispatchErr *services.DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("expected DispatchError, got %T %v", err, err)
	}
	if dispatchErr.Code != "StateMachineDoesNotExist" || dispatchErr.Message != "State Machine Does Not Exist" {
		t.Fatalf("unexpected remote detail %+v", dispatchErr.Remote)
	}
	if dispatchErr.Target != stateMachine {
		t.Fatalf("unexpected target %q", dispatchErr.Target)
	}
}

func TestSubmitRequiresTarget(t *testing.T) {
	api := testsupport.NewStepFunctions()
	dispatcher := execution.NewDispatcher(api, logging.NewNop())
	if _, err := dispatcher.Submit(context.Background(), " ", execution.Request{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(api.Started) != 0 {
		t.Fatal("expected no remote call")
	}
}

func TestStartEncodesArbitraryDocument(t *testing.T) {
	api := testsupport.NewStepFunctions()
	dispatcher := execution.NewDispatcher(api, logging.NewNop())

	doc := map[string]any{"url": "s3://b/tom&jerry.mp4"}
	if _, err := dispatcher.Start(context.Background(), stateMachine, doc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	input := aws.ToString(api.Started[0].Input)
	if input != `{"url":"s3://b/tom&jerry.mp4"}` {
		t.Fatalf("unexpected input %q", input)
	}
}
