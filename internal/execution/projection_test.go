package execution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"

	"envoi/internal/execution"
	"envoi/internal/logging"
	"envoi/internal/services"
	"envoi/internal/testsupport"
)

func describeWithOutput(t *testing.T, output *string) *execution.Record {
	t.Helper()
	api := testsupport.NewStepFunctions()
	api.Executions[executionARN] = &sfn.DescribeExecutionOutput{
		ExecutionArn: aws.String(executionARN),
		Status:       sfntypes.ExecutionStatusSucceeded,
		Output:       output,
	}
	record, err := execution.NewInspector(api, logging.NewNop()).Describe(context.Background(), execution.Handle(executionARN))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	return record
}

func TestProjectURIsFinishedExecution(t *testing.T) {
	record := describeWithOutput(t, aws.String(`{"TranscriptionJob":{"Transcript":{"TranscriptFileUri":"s3://o/t.json"},"Subtitles":{"SubtitleFileUris":["s3://o/a.vtt","s3://o/a.srt"]}}}`))

	uris, err := execution.ProjectURIs(record)
	if err != nil {
		t.Fatalf("ProjectURIs: %v", err)
	}
	if got := aws.ToString(uris.Transcription.TranscriptFileURI); got != "s3://o/t.json" {
		t.Fatalf("unexpected transcript uri %q", got)
	}
	want := []string{"s3://o/a.vtt", "s3://o/a.srt"}
	if len(uris.Transcription.SubtitleFileURIs) != len(want) {
		t.Fatalf("unexpected subtitles %v", uris.Transcription.SubtitleFileURIs)
	}
	for i := range want {
		if uris.Transcription.SubtitleFileURIs[i] != want[i] {
			t.Fatalf("subtitle %d = %q, want %q", i, uris.Transcription.SubtitleFileURIs[i], want[i])
		}
	}
}

func TestProjectURIsWithoutSubtitles(t *testing.T) {
	record := describeWithOutput(t, aws.String(`{"TranscriptionJob":{"Transcript":{"TranscriptFileUri":"s3://o/t.json"}}}`))
	uris, err := execution.ProjectURIs(record)
	if err != nil {
		t.Fatalf("ProjectURIs: %v", err)
	}
	if uris.Transcription.SubtitleFileURIs == nil || len(uris.Transcription.SubtitleFileURIs) != 0 {
		t.Fatalf("expected empty subtitle list, got %#v", uris.Transcription.SubtitleFileURIs)
	}
}

func TestProjectURIsWithoutOutput(t *testing.T) {
	record := describeWithOutput(t, nil)
	_, err := execution.ProjectURIs(record)
	var projErr *services.ProjectionError
	if !errors.As(err, &projErr) {
		t.Fatalf("expected ProjectionError, got %T %v", err, err)
	}
	if projErr.Handle != executionARN {
		t.Fatalf("unexpected handle %q", projErr.Handle)
	}
}

func TestProjectURIsWithoutTranscript(t *testing.T) {
	record := describeWithOutput(t, aws.String(`{"TranscriptionJob":{"Subtitles":{"SubtitleFileUris":[]}}}`))
	var projErr *services.ProjectionError
	if _, err := execution.ProjectURIs(record); !errors.As(err, &projErr) {
		t.Fatalf("expected ProjectionError, got %v", err)
	}
}

func TestProjectURIsNilRecord(t *testing.T) {
	if _, err := execution.ProjectURIs(nil); err == nil {
		t.Fatal("expected error for nil record")
	}
}
