package awsclient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	"envoi/internal/awsclient"
	"envoi/internal/services"
	"envoi/internal/testsupport"
)

func TestAccountIDPrefersExplicit(t *testing.T) {
	api := &testsupport.STS{Account: "999999999999"}
	got, err := awsclient.AccountID(context.Background(), api, " 123456789012 ")
	if err != nil {
		t.Fatalf("AccountID: %v", err)
	}
	if got != "123456789012" || api.Calls != 0 {
		t.Fatalf("expected explicit account without lookup, got %q (%d calls)", got, api.Calls)
	}
}

func TestAccountIDFallsBackToCallerIdentity(t *testing.T) {
	api := &testsupport.STS{Account: "999999999999"}
	got, err := awsclient.AccountID(context.Background(), api, "")
	if err != nil {
		t.Fatalf("AccountID: %v", err)
	}
	if got != "999999999999" || api.Calls != 1 {
		t.Fatalf("unexpected account %q (%d calls)", got, api.Calls)
	}
}

func TestAccountIDWithoutClient(t *testing.T) {
	if _, err := awsclient.AccountID(context.Background(), nil, ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestFromConfigBuildsEveryClient(t *testing.T) {
	clients := awsclient.FromConfig(aws.Config{Region: "us-east-1"})
	if clients.StepFunctions == nil || clients.Translate == nil || clients.S3 == nil ||
		clients.Uploader == nil || clients.S3Control == nil || clients.STS == nil {
		t.Fatalf("expected every client, got %+v", clients)
	}
}
