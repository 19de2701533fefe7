package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	size := c.Transcribe.CatalogPageSize
	if size < 1 || size > maxCatalogPageSize {
		return fmt.Errorf("transcribe.catalog_page_size must be between 1 and %d", maxCatalogPageSize)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Priority < 0 {
		return errors.New("batch.priority must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "critical":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// Advisories lists settings that are valid but will force extra flags or
// remote lookups at run time.
func (c *Config) Advisories() []string {
	var notes []string
	if c.Transcribe.StateMachineARN == "" {
		notes = append(notes, "transcribe.state_machine_arn is empty; `envoi create` will need --state-machine-arn")
	}
	if c.AWS.AccountID == "" {
		notes = append(notes, "aws.account_id is empty; batch-copy will ask STS for the caller account")
	}
	if c.Batch.SourceBucket != "" && c.Batch.RoleARN == "" {
		notes = append(notes, "batch.source_bucket is set without batch.role_arn; batch-copy will need --role-arn")
	}
	if !c.History.Enabled {
		notes = append(notes, "history is disabled; submissions will not be recorded")
	}
	return notes
}
