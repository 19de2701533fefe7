package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// AWS contains account and credential selection for the remote services.
type AWS struct {
	Region    string `toml:"region"`
	Profile   string `toml:"profile"`
	AccountID string `toml:"account_id"`
}

// Transcribe contains defaults for transcription+translation executions.
type Transcribe struct {
	StateMachineARN string `toml:"state_machine_arn"`
	SourceLanguage  string `toml:"source_language"`
	CatalogPageSize int    `toml:"catalog_page_size"`
}

// Batch contains defaults for bulk copy jobs.
type Batch struct {
	SourceBucket       string `toml:"source_bucket"`
	Prefix             string `toml:"prefix"`
	TargetBucket       string `toml:"target_bucket"`
	TargetStorageClass string `toml:"target_storage_class"`
	ManifestName       string `toml:"manifest_name"`
	ManifestBucket     string `toml:"manifest_bucket"`
	RoleARN            string `toml:"role_arn"`
	Priority           int    `toml:"priority"`
	ReportBucket       string `toml:"report_bucket"`
	ReportPrefix       string `toml:"report_prefix"`
}

// Paths contains local directories used by the CLI.
type Paths struct {
	StateDir    string `toml:"state_dir"`
	ManifestDir string `toml:"manifest_dir"`
}

// History controls the local ledger of dispatched executions and jobs.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File, when set, receives a copy of the log stream.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for Envoi.
//
// Configuration sections by subsystem:
//   - AWS: region, named profile, and account used by every client
//   - Transcribe: state machine target and language defaults
//   - Batch: bulk copy job defaults (buckets, role, report)
//   - Paths: state and manifest directories
//   - History: local execution ledger
//   - Logging: log format, level, and optional log file
type Config struct {
	AWS        AWS        `toml:"aws"`
	Transcribe Transcribe `toml:"transcribe"`
	Batch      Batch      `toml:"batch"`
	Paths      Paths      `toml:"paths"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and environment fallbacks applied. Fallbacks are read from the
// process environment and then from a .env file in the working directory.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	lookup, err := withDotenv(os.LookupEnv, dotenvFile)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("envoi.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the local state and manifest directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.ManifestDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the execution ledger database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// ErrConfigExists is returned by WriteSample when the target is already present.
var ErrConfigExists = errors.New("config file already exists")

// WriteSample writes the sample configuration to path, or to the default
// location when path is blank, and returns the expanded destination. Without
// overwrite an existing file is left untouched and ErrConfigExists returned.
func WriteSample(path string, overwrite bool) (string, error) {
	target := strings.TrimSpace(path)
	if target == "" {
		target = defaultConfigPath
	}
	target, err := expandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return target, fmt.Errorf("%w at %s", ErrConfigExists, target)
		}
		return "", fmt.Errorf("open %s: %w", target, err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write sample config: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return target, nil
}
