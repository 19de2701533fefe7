package awsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/translate"

	"envoi/internal/batch"
	"envoi/internal/execution"
	"envoi/internal/language"
	"envoi/internal/services"
	"envoi/internal/storage"
)

// StepFunctionsAPI covers both submit and describe.
type StepFunctionsAPI interface {
	execution.StartExecutionAPI
	execution.DescribeExecutionAPI
}

// ObjectStoreAPI covers listing, head and tagging requests.
type ObjectStoreAPI interface {
	s3.ListObjectsV2APIClient
	batch.HeadObjectAPI
	storage.PutObjectTaggingAPI
}

// CallerIdentityAPI resolves the account behind the active credentials.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Clients holds one client per service.
type Clients struct {
	StepFunctions StepFunctionsAPI
	Translate     language.ListLanguagesAPI
	S3            ObjectStoreAPI
	Uploader      batch.UploadAPI
	S3Control     batch.CreateJobAPI
	STS           CallerIdentityAPI
}

// Options selects the region and shared-config profile.
type Options struct {
	Region  string
	Profile string
}

// New loads the default credential chain and builds every client.
func New(ctx context.Context, opts Options) (*Clients, error) {
	var loaders []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(opts.Region); region != "" {
		loaders = append(loaders, awsconfig.WithRegion(region))
	}
	if profile := strings.TrimSpace(opts.Profile); profile != "" {
		loaders = append(loaders, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "aws", "load config", "", err)
	}
	return FromConfig(cfg), nil
}

// FromConfig builds clients from an already loaded aws.Config.
func FromConfig(cfg aws.Config) *Clients {
	s3Client := s3.NewFromConfig(cfg)
	return &Clients{
		StepFunctions: sfn.NewFromConfig(cfg),
		Translate:     translate.NewFromConfig(cfg),
		S3:            s3Client,
		Uploader:      manager.NewUploader(s3Client),
		S3Control:     s3control.NewFromConfig(cfg),
		STS:           sts.NewFromConfig(cfg),
	}
}

// AccountID returns explicit when set, otherwise the account of the caller.
func AccountID(ctx context.Context, api CallerIdentityAPI, explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	if api == nil {
		return "", services.Wrap(services.ErrConfiguration, "aws", "resolve account", "account id is not configured", nil)
	}
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		remote := services.RemoteDetail(err)
		return "", services.Wrap(services.ErrExternalService, "aws", "get caller identity", remote.String(), err)
	}
	account := aws.ToString(out.Account)
	if account == "" {
		return "", fmt.Errorf("get caller identity: empty account")
	}
	return account, nil
}
