package batch

import (
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/aws/aws-sdk-go-v2/service/s3control/types"

	"envoi/internal/services"
)

// ReportConfig controls the completion report.
type ReportConfig struct {
	Enabled    bool
	Bucket     string
	Prefix     string
	FailedOnly bool
}

// Job describes one copy job.
type Job struct {
	AccountID      string
	SourceBucket   string
	Prefix         string
	TargetBucket   string
	StorageClass   string
	ManifestName   string
	ManifestBucket string
	RoleARN        string
	Priority       int32
	Report         ReportConfig
}

// normalized fills the target and manifest buckets from the source bucket
// when they are unset, and validates the rest.
func (j Job) normalized() (Job, error) {
	j.SourceBucket = strings.TrimSpace(j.SourceBucket)
	j.TargetBucket = strings.TrimSpace(j.TargetBucket)
	j.ManifestBucket = strings.TrimSpace(j.ManifestBucket)
	j.StorageClass = strings.ToUpper(strings.TrimSpace(j.StorageClass))
	if j.TargetBucket == "" {
		j.TargetBucket = j.SourceBucket
	}
	if j.ManifestBucket == "" {
		j.ManifestBucket = j.SourceBucket
	}

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"account id", j.AccountID},
		{"source bucket", j.SourceBucket},
		{"storage class", j.StorageClass},
		{"manifest name", j.ManifestName},
		{"role arn", j.RoleARN},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if j.Report.Enabled && strings.TrimSpace(j.Report.Bucket) == "" {
		missing = append(missing, "report bucket")
	}
	if len(missing) > 0 {
		return Job{}, services.Wrap(services.ErrValidation, "batch", "validate job",
			"missing "+strings.Join(missing, ", "), nil)
	}
	if name := strings.TrimSpace(j.ManifestName); name != "" && j.ManifestFileName() == "" {
		return Job{}, services.Wrap(services.ErrValidation, "batch", "validate job",
			fmt.Sprintf("manifest name %q has no file name", name), nil)
	}
	if j.Priority < 0 {
		return Job{}, services.Wrap(services.ErrValidation, "batch", "validate job",
			fmt.Sprintf("priority must be >= 0 (got %d)", j.Priority), nil)
	}
	return j, nil
}

// ManifestKey is the object key the manifest is uploaded to. Directory parts
// of the manifest name are kept; a leading "/" is dropped.
func (j Job) ManifestKey() string {
	return strings.TrimLeft(strings.TrimSpace(j.ManifestName), "/")
}

// ManifestFileName is the last segment of ManifestKey, used for the local copy.
func (j Job) ManifestFileName() string {
	key := j.ManifestKey()
	if key == "" || strings.HasSuffix(key, "/") {
		return ""
	}
	return path.Base(key)
}

func bucketARN(bucket string) string {
	return "arn:aws:s3:::" + bucket
}

// CreateJobInput assembles the S3 Control request for job whose manifest
// was stored with etag.
func CreateJobInput(job Job, etag string) *s3control.CreateJobInput {
	return &s3control.CreateJobInput{
		AccountId:            aws.String(job.AccountID),
		ConfirmationRequired: aws.Bool(true),
		Operation: &types.JobOperation{
			S3PutObjectCopy: &types.S3CopyObjectOperation{
				TargetResource: aws.String(bucketARN(job.TargetBucket)),
				StorageClass:   types.S3StorageClass(job.StorageClass),
			},
		},
		Manifest: &types.JobManifest{
			Spec: &types.JobManifestSpec{
				Format: types.JobManifestFormatS3BatchOperationsCsv20180820,
				Fields: []types.JobManifestFieldName{
					types.JobManifestFieldNameBucket,
					types.JobManifestFieldNameKey,
				},
			},
			Location: &types.JobManifestLocation{
				ObjectArn: aws.String(bucketARN(job.ManifestBucket) + "/" + job.ManifestKey()),
				ETag:      aws.String(etag),
			},
		},
		Report:   reportFor(job.Report),
		Priority: aws.Int32(job.Priority),
		RoleArn:  aws.String(job.RoleARN),
	}
}

func reportFor(cfg ReportConfig) *types.JobReport {
	if !cfg.Enabled {
		return &types.JobReport{Enabled: aws.Bool(false)}
	}
	scope := types.JobReportScopeAllTasks
	if cfg.FailedOnly {
		scope = types.JobReportScopeFailedTasksOnly
	}
	report := &types.JobReport{
		Enabled:     aws.Bool(true),
		Bucket:      aws.String(bucketARN(strings.TrimSpace(cfg.Bucket))),
		Format:      types.JobReportFormatReportCsv20180820,
		ReportScope: scope,
	}
	if prefix := strings.TrimSpace(cfg.Prefix); prefix != "" {
		report.Prefix = aws.String(prefix)
	}
	return report
}
