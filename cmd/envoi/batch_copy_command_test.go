package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	"envoi/internal/batch"
	"envoi/internal/services"
	"envoi/internal/testsupport"
)

func TestBatchCopyUsesConfiguredDefaults(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithBatchDefaults())
	env.s3.Put("media-src", "a.mp4", []byte("aaa"))
	env.s3.Put("media-src", "b.mp4", []byte("b"))

	out, _, err := env.run(t, "", "batch-copy")
	if err != nil {
		t.Fatalf("batch-copy: %v", err)
	}
	if strings.TrimSpace(out) != "job-0001" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(env.control.Jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(env.control.Jobs))
	}
	job := env.control.Jobs[0]
	if aws.ToString(job.AccountId) != "123456789012" {
		t.Fatalf("expected configured account, got %q", aws.ToString(job.AccountId))
	}
	if aws.ToInt32(job.Priority) != 10 {
		t.Fatalf("expected default priority, got %d", aws.ToInt32(job.Priority))
	}
	if env.sts.Calls != 0 {
		t.Fatal("expected no caller identity lookup when the account is configured")
	}
	if got := env.s3.Uploads; len(got) != 1 || got[0] != "media-src/s3_batch_manifest.csv" {
		t.Fatalf("unexpected uploads %v", got)
	}
}

func TestBatchCopyFlagsOverrideAndResolveAccount(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithBatchDefaults())
	env.cfg.AWS.AccountID = ""
	writeTestConfig(t, env.configPath, env.cfg)
	env.s3.Put("media-src", "archive/a.mp4", []byte("aaa"))
	env.s3.Put("manifests", ".keep", nil)

	out, _, err := env.run(t, "", "batch-copy",
		"--prefix", "archive/",
		"--target-bucket-name", "media-cold",
		"--manifest-bucket-name", "manifests",
		"--priority", "42",
		"--enable-report",
		"--report-bucket-name", "reports",
		"--report-errors-only",
		"--json",
	)
	if err != nil {
		t.Fatalf("batch-copy: %v", err)
	}
	var result batch.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result %q: %v", out, err)
	}
	if result.JobID != "job-0001" || result.Objects != 1 || result.ManifestURI != "s3://manifests/s3_batch_manifest.csv" {
		t.Fatalf("unexpected result %+v", result)
	}

	job := env.control.Jobs[0]
	if aws.ToString(job.AccountId) != "210987654321" || env.sts.Calls != 1 {
		t.Fatalf("expected caller identity account, got %q", aws.ToString(job.AccountId))
	}
	if aws.ToInt32(job.Priority) != 42 {
		t.Fatalf("unexpected priority %d", aws.ToInt32(job.Priority))
	}
	if aws.ToString(job.Operation.S3PutObjectCopy.TargetResource) != "arn:aws:s3:::media-cold" {
		t.Fatalf("unexpected target %q", aws.ToString(job.Operation.S3PutObjectCopy.TargetResource))
	}
	if !aws.ToBool(job.Report.Enabled) || aws.ToString(job.Report.Prefix) != "reports/" {
		t.Fatalf("unexpected report %+v", job.Report)
	}
}

func TestBatchCopySurfacesJobCreationError(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithBatchDefaults())
	env.s3.Put("media-src", "a.mp4", []byte("a"))
	env.control.Err = testsupport.APIError("InvalidRequest", "Invalid storage class")

	_, _, err := env.run(t, "", "batch-copy")
	var jobErr *services.JobCreationError
	if !errors.As(err, &jobErr) {
		t.Fatalf("expected JobCreationError, got %T %v", err, err)
	}
	requireContains(t, err.Error(), "Invalid storage class")
}

func TestBatchCopyRequiresRole(t *testing.T) {
	env := setupCLITestEnv(t)
	env.s3.Put("media-src", "a.mp4", []byte("a"))
	_, _, err := env.run(t, "", "batch-copy", "--bucket-name", "media-src", "--manifest-name", "m.csv", "--target-storage-class", "GLACIER")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
