package config

const (
	defaultConfigPath      = "~/.config/envoi/config.toml"
	defaultStateDir        = "~/.local/share/envoi"
	defaultManifestDir     = "~/.local/share/envoi/manifests"
	defaultSourceLanguage  = "en"
	defaultCatalogPageSize = 500
	maxCatalogPageSize     = 500
	defaultBatchPriority   = 10
	defaultReportPrefix    = "reports/"
	defaultLogFormat       = "console"
	defaultLogLevel        = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcribe: Transcribe{
			SourceLanguage:  defaultSourceLanguage,
			CatalogPageSize: defaultCatalogPageSize,
		},
		Batch: Batch{
			Priority:     defaultBatchPriority,
			ReportPrefix: defaultReportPrefix,
		},
		Paths: Paths{
			StateDir:    defaultStateDir,
			ManifestDir: defaultManifestDir,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
