package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	"envoi/internal/execution"
	"envoi/internal/services"
	"envoi/internal/testsupport"
)

func decodeRequest(t *testing.T, out string) execution.Request {
	t.Helper()
	var req execution.Request
	if err := json.Unmarshal([]byte(out), &req); err != nil {
		t.Fatalf("decode dry-run output %q: %v", out, err)
	}
	return req
}

func TestCreateDryRunTranscriptionOnly(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "", "create",
		"--media-file-uri", "s3://bucket/path/clip.mp4",
		"--output-bucket-name", "out",
		"--dry-run",
	)
	if err != nil {
		t.Fatalf("create --dry-run: %v", err)
	}
	req := decodeRequest(t, out)
	if req.Transcribe.Media.MediaFileURI != "s3://bucket/path/clip.mp4" {
		t.Fatalf("unexpected media uri %q", req.Transcribe.Media.MediaFileURI)
	}
	if !strings.HasPrefix(req.Transcribe.TranscriptionJobName, "clip-") {
		t.Fatalf("unexpected job name %q", req.Transcribe.TranscriptionJobName)
	}
	requireContains(t, out, `"Languages": []`)
	if len(env.sfn.Started) != 0 || len(env.translate.Calls) != 0 {
		t.Fatal("dry run must not call remote services")
	}
}

func TestCreateDryRunKeepsAmpersandInKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "", "create",
		"--media-file-uri", "s3://bucket/tom&jerry.mp4",
		"--output-bucket-name", "out",
		"--dry-run",
	)
	if err != nil {
		t.Fatalf("create --dry-run: %v", err)
	}
	requireContains(t, out, `"MediaFileUri": "s3://bucket/tom&jerry.mp4"`)
	requireContains(t, out, `"TranscriptionJobName": "tom&jerry-`)
}

func TestCreateDryRunAllLanguages(t *testing.T) {
	env := setupCLITestEnv(t)
	env.translate.Codes = []string{"es", "fr"}

	out, _, err := env.run(t, "", "create",
		"--media-file-uri", "s3://bucket/path/clip.mp4",
		"--output-bucket-name", "out",
		"-l", "all",
		"--dry-run",
	)
	if err != nil {
		t.Fatalf("create -l all: %v", err)
	}
	req := decodeRequest(t, out)
	got, _ := json.Marshal(req.Translate.Languages)
	want := `[{"LanguageCode":"es","OutputBucketName":"out"},{"LanguageCode":"fr","OutputBucketName":"out"}]`
	if string(got) != want {
		t.Fatalf("unexpected languages %s", got)
	}
	if len(env.translate.Calls) != 1 || aws.ToInt32(env.translate.Calls[0].MaxResults) != 500 {
		t.Fatalf("expected one bounded catalog call, got %+v", env.translate.Calls)
	}
}

func TestCreateAcceptsSpaceSeparatedLanguages(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "", "create",
		"--media-file-uri", "s3://bucket/clip.mp4",
		"--output-bucket-name", "out",
		"--dry-run",
		"-l", "es", "fr", "de",
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	req := decodeRequest(t, out)
	var codes []string
	for _, l := range req.Translate.Languages {
		codes = append(codes, l.LanguageCode)
	}
	if strings.Join(codes, ",") != "es,fr,de" {
		t.Fatalf("unexpected languages %v", codes)
	}
}

func TestCreateRejectsStrayArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "", "create",
		"--media-file-uri", "s3://bucket/clip.mp4",
		"--output-bucket-name", "out",
		"es",
	)
	if err == nil {
		t.Fatal("expected error for positional arguments without -l")
	}
}

func TestCreateDispatchesAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "", "create",
		"--media-file-uri", "s3://bucket/clip.mp4",
		"--output-bucket-name", "out",
		"--job-name", "clip-job",
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	handle := strings.TrimSpace(out)
	if !strings.Contains(handle, ":execution:envoi-transcribe:") {
		t.Fatalf("unexpected handle %q", handle)
	}
	if len(env.sfn.Started) != 1 {
		t.Fatalf("expected one execution, got %d", len(env.sfn.Started))
	}
	if aws.ToString(env.sfn.Started[0].StateMachineArn) != env.cfg.Transcribe.StateMachineARN {
		t.Fatalf("unexpected target %q", aws.ToString(env.sfn.Started[0].StateMachineArn))
	}

	hist, _, err := env.run(t, "", "history", "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, hist, handle)
	requireContains(t, hist, `"name": "clip-job"`)
}

func TestCreateSurfacesDispatchError(t *testing.T) {
	env := setupCLITestEnv(t)
	env.sfn.StartErr = testsupport.APIError("InvalidArn", "Invalid Arn")
	_, _, err := env.run(t, "", "create",
		"--media-file-uri", "s3://bucket/clip.mp4",
		"--output-bucket-name", "out",
		"--state-machine-arn", "bogus",
	)
	var dispatchErr *services.DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("expected DispatchError, got %T %v", err, err)
	}
	if dispatchErr.Target != "bogus" || dispatchErr.Code != "InvalidArn" {
		t.Fatalf("unexpected error %+v", dispatchErr)
	}
}
