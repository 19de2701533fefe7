package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"envoi/internal/awsclient"
	"envoi/internal/batch"
	"envoi/internal/history"
	"envoi/internal/storage"
)

func newBatchCopyCommand(ctx *commandContext) *cobra.Command {
	var (
		bucketName         string
		targetBucketName   string
		prefix             string
		manifestName       string
		manifestBucketName string
		roleARN            string
		priority           int
		accountID          string
		targetStorageClass string
		enableReport       bool
		reportBucketName   string
		reportPrefix       string
		reportErrorsOnly   bool
		asJSON             bool
	)

	cmd := &cobra.Command{
		Use:   "batch-copy",
		Short: "Create an S3 Batch Operations job that copies objects to a new storage class",
		Long: `Create an S3 Batch Operations copy job for every object under a bucket prefix.

A manifest of bucket,key rows is written locally, uploaded, and referenced by
its stored ETag. The job is created with confirmation required and does not
run until it is confirmed. Unset flags fall back to the [batch] configuration
section and its environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			clients, err := ctx.ensureClients(runCtx)
			if err != nil {
				return err
			}

			account, err := awsclient.AccountID(runCtx, clients.STS, firstNonEmpty(accountID, cfg.AWS.AccountID))
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("priority") {
				priority = cfg.Batch.Priority
			}
			if priority < 0 || priority > math.MaxInt32 {
				return fmt.Errorf("priority %d is out of range", priority)
			}
			if !cmd.Flags().Changed("report-prefix") {
				reportPrefix = cfg.Batch.ReportPrefix
			}

			job := batch.Job{
				AccountID:      account,
				SourceBucket:   firstNonEmpty(bucketName, cfg.Batch.SourceBucket),
				Prefix:         firstNonEmpty(prefix, cfg.Batch.Prefix),
				TargetBucket:   firstNonEmpty(targetBucketName, cfg.Batch.TargetBucket),
				StorageClass:   firstNonEmpty(targetStorageClass, cfg.Batch.TargetStorageClass),
				ManifestName:   firstNonEmpty(manifestName, cfg.Batch.ManifestName),
				ManifestBucket: firstNonEmpty(manifestBucketName, cfg.Batch.ManifestBucket),
				RoleARN:        firstNonEmpty(roleARN, cfg.Batch.RoleARN),
				Priority:       int32(priority),
				Report: batch.ReportConfig{
					Enabled:    enableReport,
					Bucket:     firstNonEmpty(reportBucketName, cfg.Batch.ReportBucket),
					Prefix:     reportPrefix,
					FailedOnly: reportErrorsOnly,
				},
			}

			builder := batch.NewBuilder(batch.Deps{
				Lister:      storage.NewLister(clients.S3, 0, logger),
				Uploader:    clients.Uploader,
				Head:        clients.S3,
				Control:     clients.S3Control,
				ManifestDir: cfg.Paths.ManifestDir,
			}, logger)
			result, err := builder.BuildAndSubmit(runCtx, job)
			if err != nil {
				return err
			}
			ctx.recordHistory(runCtx, logger, history.Entry{
				Kind:   history.KindBatchJob,
				Handle: result.JobID,
				Target: account,
				Name:   job.ManifestKey(),
				Source: result.ManifestURI,
			})

			if asJSON {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.JobID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&bucketName, "bucket-name", "", "The bucket holding the objects to copy")
	flags.StringVar(&targetBucketName, "target-bucket-name", "", "The destination bucket (defaults to the source bucket)")
	flags.StringVar(&prefix, "prefix", "", "Only copy objects under this prefix")
	flags.StringVar(&manifestName, "manifest-name", "", "The manifest file name and object key")
	flags.StringVar(&manifestBucketName, "manifest-bucket-name", "", "The bucket the manifest is uploaded to (defaults to the source bucket)")
	flags.StringVar(&roleARN, "role-arn", "", "The IAM role the job runs as")
	flags.IntVar(&priority, "priority", 0, "The job priority (defaults to batch.priority)")
	flags.StringVar(&accountID, "aws-account-id", "", "The AWS account that owns the job (defaults to the caller's account)")
	flags.StringVar(&targetStorageClass, "target-storage-class", "", "The storage class to copy objects into, e.g. GLACIER_IR")
	flags.BoolVar(&enableReport, "enable-report", false, "Write a completion report")
	flags.StringVar(&reportBucketName, "report-bucket-name", "", "The bucket that receives the completion report")
	flags.StringVar(&reportPrefix, "report-prefix", "reports/", "The key prefix of the completion report")
	flags.BoolVar(&reportErrorsOnly, "report-errors-only", false, "Only report failed tasks")
	flags.BoolVar(&asJSON, "json", false, "Print the job id, manifest location and object count as JSON")
	return cmd
}
