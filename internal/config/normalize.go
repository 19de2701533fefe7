package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const dotenvFile = ".env"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// withDotenv layers the KEY=value pairs of the file at path beneath lookup.
// Non-empty variables from lookup win. A missing file is ignored.
func withDotenv(lookup LookupFunc, path string) (LookupFunc, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lookup, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return value, true
		}
		value, ok := values[key]
		return value, ok
	}, nil
}

// applyEnv seeds fields from the environment. It runs before the config file
// is decoded, so values from the file take precedence.
func (c *Config) applyEnv(lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	fields := []struct {
		key    string
		target *string
	}{
		{"AWS_REGION", &c.AWS.Region},
		{"AWS_PROFILE", &c.AWS.Profile},
		{"AWS_ACCOUNT_ID", &c.AWS.AccountID},
		{"ENVOI_STATE_MACHINE_ARN", &c.Transcribe.StateMachineARN},
		{"BUCKET_NAME", &c.Batch.SourceBucket},
		{"PREFIX", &c.Batch.Prefix},
		{"TARGET_BUCKET_NAME", &c.Batch.TargetBucket},
		{"TARGET_STORAGE_CLASS", &c.Batch.TargetStorageClass},
		{"MANIFEST_NAME", &c.Batch.ManifestName},
		{"MANIFEST_BUCKET_NAME", &c.Batch.ManifestBucket},
		{"ROLE_ARN", &c.Batch.RoleARN},
		{"REPORT_BUCKET_NAME", &c.Batch.ReportBucket},
		{"REPORT_PREFIX", &c.Batch.ReportPrefix},
		{"ENVOI_LOG_FILE", &c.Logging.File},
	}
	for _, entry := range fields {
		if value, ok := lookupTrimmed(lookup, entry.key); ok {
			*entry.target = value
		}
	}
	if value, ok := lookupTrimmed(lookup, "PRIORITY"); ok {
		priority, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("PRIORITY: %q is not an integer", value)
		}
		c.Batch.Priority = priority
	}
	return nil
}

func lookupTrimmed(lookup LookupFunc, key string) (string, bool) {
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAWS()
	c.normalizeTranscribe()
	c.normalizeBatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ManifestDir) == "" {
		c.Paths.ManifestDir = defaultManifestDir
	}
	if c.Paths.ManifestDir, err = expandPath(c.Paths.ManifestDir); err != nil {
		return fmt.Errorf("paths.manifest_dir: %w", err)
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		if c.Logging.File, err = expandPath(file); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	} else {
		c.Logging.File = ""
	}
	return nil
}

func (c *Config) normalizeAWS() {
	c.AWS.Region = strings.TrimSpace(c.AWS.Region)
	c.AWS.Profile = strings.TrimSpace(c.AWS.Profile)
	c.AWS.AccountID = strings.TrimSpace(c.AWS.AccountID)
}

func (c *Config) normalizeTranscribe() {
	c.Transcribe.StateMachineARN = strings.TrimSpace(c.Transcribe.StateMachineARN)
	c.Transcribe.SourceLanguage = strings.TrimSpace(c.Transcribe.SourceLanguage)
	if c.Transcribe.SourceLanguage == "" {
		c.Transcribe.SourceLanguage = defaultSourceLanguage
	}
	if c.Transcribe.CatalogPageSize == 0 {
		c.Transcribe.CatalogPageSize = defaultCatalogPageSize
	}
}

func (c *Config) normalizeBatch() {
	b := &c.Batch
	b.SourceBucket = strings.TrimSpace(b.SourceBucket)
	b.TargetBucket = strings.TrimSpace(b.TargetBucket)
	b.TargetStorageClass = strings.ToUpper(strings.TrimSpace(b.TargetStorageClass))
	b.ManifestName = strings.TrimSpace(b.ManifestName)
	b.ManifestBucket = strings.TrimSpace(b.ManifestBucket)
	b.RoleARN = strings.TrimSpace(b.RoleARN)
	b.ReportBucket = strings.TrimSpace(b.ReportBucket)
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
