package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"envoi/internal/logging"
	"envoi/internal/services"
)

// Object describes one listed object.
type Object struct {
	Bucket       string    `json:"-"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	StorageClass string    `json:"storage_class"`
	ETag         string    `json:"etag"`
}

// URL returns the object's s3:// address.
func (o Object) URL() string {
	return "s3://" + o.Bucket + "/" + o.Key
}

// Lister pages through bucket listings.
type Lister struct {
	api      s3.ListObjectsV2APIClient
	pageSize int32
	logger   *slog.Logger
}

// NewLister wraps api. A non-positive page size leaves the service default.
func NewLister(api s3.ListObjectsV2APIClient, pageSize int32, logger *slog.Logger) *Lister {
	return &Lister{api: api, pageSize: pageSize, logger: logging.NewComponentLogger(logger, "storage")}
}

// List returns every object under bucket/prefix, across all pages.
func (l *Lister) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, services.Wrap(services.ErrValidation, "storage", "list objects", "bucket is required", nil)
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if l.pageSize > 0 {
		input.MaxKeys = aws.Int32(l.pageSize)
	}

	var (
		objects []Object
		pages   int
	)
	paginator := s3.NewListObjectsV2Paginator(l.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			remote := services.RemoteDetail(err)
			return nil, services.Wrap(services.ErrExternalService, "storage",
				fmt.Sprintf("list s3://%s/%s", bucket, prefix), remote.String(), err)
		}
		pages++
		for _, item := range page.Contents {
			key := aws.ToString(item.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			objects = append(objects, Object{
				Bucket:       bucket,
				Key:          key,
				Size:         aws.ToInt64(item.Size),
				LastModified: aws.ToTime(item.LastModified),
				StorageClass: string(item.StorageClass),
				ETag:         aws.ToString(item.ETag),
			})
		}
	}
	l.logger.Debug("listed objects",
		logging.String(logging.FieldBucket, bucket),
		logging.String("prefix", prefix),
		logging.Int("pages", pages),
		logging.Int("objects", len(objects)),
	)
	return objects, nil
}

// TotalSize sums the sizes of objects.
func TotalSize(objects []Object) uint64 {
	var total uint64
	for _, obj := range objects {
		if obj.Size > 0 {
			total += uint64(obj.Size)
		}
	}
	return total
}
