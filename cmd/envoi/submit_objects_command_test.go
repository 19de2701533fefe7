package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

const perObjectMachine = "arn:aws:states:us-east-1:123456789012:stateMachine:per-object"

func seedObjects(env *cliTestEnv) {
	env.s3.Put("media", "in/", nil)
	env.s3.Put("media", "in/a.mp4", make([]byte, 1500))
	env.s3.Put("media", "in/b.mp4", make([]byte, 500))
}

func TestSubmitObjectsWithYes(t *testing.T) {
	env := setupCLITestEnv(t)
	seedObjects(env)

	out, stderr, err := env.run(t, "", "submit-objects", "-b", "media", "-p", "in/", "-s", perObjectMachine, "--yes")
	if err != nil {
		t.Fatalf("submit-objects: %v", err)
	}
	requireContains(t, stderr, "There are 2 objects with a total size of 2,000 bytes")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || len(env.sfn.Started) != 2 {
		t.Fatalf("expected two handles, got %q", out)
	}

	var doc struct {
		URL    string `json:"url"`
		Object struct {
			Key          string `json:"key"`
			Size         int64  `json:"size"`
			StorageClass string `json:"storage_class"`
			ETag         string `json:"etag"`
			LastModified string `json:"last_modified"`
		} `json:"object"`
	}
	if err := json.Unmarshal([]byte(aws.ToString(env.sfn.Started[0].Input)), &doc); err != nil {
		t.Fatalf("decode input: %v", err)
	}
	if doc.URL != "s3://media/in/a.mp4" || doc.Object.Key != "in/a.mp4" || doc.Object.Size != 1500 {
		t.Fatalf("unexpected input %+v", doc)
	}
	if doc.Object.StorageClass != "STANDARD" || doc.Object.ETag == "" || doc.Object.LastModified == "" {
		t.Fatalf("expected object metadata, got %+v", doc.Object)
	}
}

func TestSubmitObjectsRequiresYesWithoutTerminal(t *testing.T) {
	env := setupCLITestEnv(t)
	seedObjects(env)
	if _, _, err := env.run(t, "", "submit-objects", "-b", "media", "-s", perObjectMachine); err == nil {
		t.Fatal("expected error without --yes on a non-terminal stdin")
	}
	if len(env.sfn.Started) != 0 {
		t.Fatal("expected no executions")
	}
}

func TestSubmitObjectsPromptDeclined(t *testing.T) {
	env := setupCLITestEnv(t)
	env.terminal = true
	seedObjects(env)

	_, stderr, err := env.run(t, "n\n", "submit-objects", "-b", "media", "-s", perObjectMachine)
	if err != nil {
		t.Fatalf("submit-objects: %v", err)
	}
	requireContains(t, stderr, "Aborting...")
	if len(env.sfn.Started) != 0 {
		t.Fatal("expected no executions after declining")
	}
}

func TestSubmitObjectsPromptAccepted(t *testing.T) {
	env := setupCLITestEnv(t)
	env.terminal = true
	seedObjects(env)

	out, _, err := env.run(t, "y\n", "submit-objects", "-b", "media", "-p", "in/a", "-s", perObjectMachine)
	if err != nil {
		t.Fatalf("submit-objects: %v", err)
	}
	if len(env.sfn.Started) != 1 || strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one execution, got %q", out)
	}
}

func TestSummarizeObjectsSingular(t *testing.T) {
	env := setupCLITestEnv(t)
	env.s3.Put("media", "one", []byte("x"))
	_, stderr, err := env.run(t, "", "submit-objects", "-b", "media", "-s", perObjectMachine, "-y")
	if err != nil {
		t.Fatalf("submit-objects: %v", err)
	}
	requireContains(t, stderr, "There is 1 object with a total size of 1 byte")
}
