package testsupport

import (
	"path/filepath"
	"testing"

	"envoi/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.AWS.Region = "us-east-1"
	cfgVal.AWS.AccountID = "123456789012"
	cfgVal.Transcribe.StateMachineARN = "arn:aws:states:us-east-1:123456789012:stateMachine:envoi-transcribe"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.ManifestDir = filepath.Join(base, "manifests")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithHistory toggles the execution ledger on the test config.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithBatchDefaults fills the batch section with a usable job definition.
func WithBatchDefaults() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.SourceBucket = "media-src"
		b.cfg.Batch.TargetStorageClass = "GLACIER_IR"
		b.cfg.Batch.ManifestName = "s3_batch_manifest.csv"
		b.cfg.Batch.RoleARN = "arn:aws:iam::123456789012:role/S3BatchJobRole"
	}
}

// WithLogFile points logging.file at name inside the test directory.
func WithLogFile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
