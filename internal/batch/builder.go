package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3control"

	"envoi/internal/logging"
	"envoi/internal/services"
	"envoi/internal/storage"
)

// ObjectLister enumerates the objects a job copies.
type ObjectLister interface {
	List(ctx context.Context, bucket, prefix string) ([]storage.Object, error)
}

// UploadAPI is satisfied by *manager.Uploader.
type UploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// HeadObjectAPI reads back stored object metadata.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// CreateJobAPI is the subset of the S3 Control client used to submit jobs.
type CreateJobAPI interface {
	CreateJob(ctx context.Context, params *s3control.CreateJobInput, optFns ...func(*s3control.Options)) (*s3control.CreateJobOutput, error)
}

// Deps bundles the collaborators of a Builder.
type Deps struct {
	Lister      ObjectLister
	Uploader    UploadAPI
	Head        HeadObjectAPI
	Control     CreateJobAPI
	ManifestDir string
}

// Result reports a created job.
type Result struct {
	JobID        string `json:"JobId"`
	ManifestURI  string `json:"ManifestUri"`
	ManifestETag string `json:"ManifestETag"`
	Objects      int    `json:"Objects"`
}

// Builder runs the list, manifest, upload, create sequence.
type Builder struct {
	deps   Deps
	logger *slog.Logger
}

// NewBuilder returns a Builder using deps.
func NewBuilder(deps Deps, logger *slog.Logger) *Builder {
	return &Builder{deps: deps, logger: logging.NewComponentLogger(logger, "batch")}
}

// BuildAndSubmit creates one copy job for every object under the job's
// source prefix. Each call writes and uploads a fresh manifest and creates a
// new job.
func (b *Builder) BuildAndSubmit(ctx context.Context, job Job) (*Result, error) {
	job, err := job.normalized()
	if err != nil {
		return nil, err
	}
	logger := b.logger.With(
		logging.String(logging.FieldBucket, job.SourceBucket),
		logging.String("prefix", job.Prefix),
	)

	objects, err := b.deps.Lister.List(ctx, job.SourceBucket, job.Prefix)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, services.Wrap(services.ErrValidation, "batch", "build manifest",
			fmt.Sprintf("no objects under s3://%s/%s", job.SourceBucket, job.Prefix), nil)
	}

	manifest := NewManifestFile(filepath.Join(b.deps.ManifestDir, job.ManifestFileName()))
	if err := manifest.Write(EntriesFor(objects)); err != nil {
		return nil, err
	}
	logger.Info("manifest written",
		logging.String("path", manifest.Path()),
		logging.Int("objects", len(objects)),
	)

	key := job.ManifestKey()
	if err := b.upload(ctx, manifest.Path(), job.ManifestBucket, key); err != nil {
		return nil, err
	}

	head, err := b.deps.Head.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(job.ManifestBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		remote := services.RemoteDetail(err)
		return nil, services.Wrap(services.ErrExternalService, "batch",
			fmt.Sprintf("head s3://%s/%s", job.ManifestBucket, key), remote.String(), err)
	}
	etag := aws.ToString(head.ETag)
	logger.Debug("manifest etag", logging.String("etag", etag))

	resp, err := b.deps.Control.CreateJob(ctx, CreateJobInput(job, etag))
	if err != nil {
		remote := services.RemoteDetail(err)
		logger.Error("create job failed",
			logging.String(logging.FieldErrorCode, remote.Code),
			logging.Error(err),
		)
		return nil, &services.JobCreationError{AccountID: job.AccountID, Remote: remote, Err: err}
	}

	result := &Result{
		JobID:        aws.ToString(resp.JobId),
		ManifestURI:  "s3://" + job.ManifestBucket + "/" + key,
		ManifestETag: etag,
		Objects:      len(objects),
	}
	logger.Info("batch job created",
		logging.String(logging.FieldJobID, result.JobID),
		logging.String("target_bucket", job.TargetBucket),
		logging.String("storage_class", job.StorageClass),
	)
	return result, nil
}

func (b *Builder) upload(ctx context.Context, path, bucket, key string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	if _, err := b.deps.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("text/csv"),
	}); err != nil {
		remote := services.RemoteDetail(err)
		return services.Wrap(services.ErrExternalService, "batch",
			fmt.Sprintf("upload s3://%s/%s", bucket, key), remote.String(), err)
	}
	b.logger.Debug("manifest uploaded",
		logging.String(logging.FieldBucket, bucket),
		logging.String(logging.FieldKey, key),
	)
	return nil
}
