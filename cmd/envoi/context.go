package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"envoi/internal/awsclient"
	"envoi/internal/config"
	"envoi/internal/history"
	"envoi/internal/logging"
)

type clientFactory func(ctx context.Context, cfg *config.Config) (*awsclient.Clients, error)

type rootOptions struct {
	newClients      clientFactory
	stdinIsTerminal func() bool
}

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string
	opts          rootOptions

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	clientsOnce sync.Once
	clients     *awsclient.Clients
	clientsErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string, opts rootOptions) *commandContext {
	if opts.newClients == nil {
		opts.newClients = defaultClients
	}
	if opts.stdinIsTerminal == nil {
		opts.stdinIsTerminal = stdinIsTerminal
	}
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		opts:          opts,
	}
}

func defaultClients(ctx context.Context, cfg *config.Config) (*awsclient.Clients, error) {
	return awsclient.New(ctx, awsclient.Options{Region: cfg.AWS.Region, Profile: cfg.AWS.Profile})
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger on first use. Flags override the
// configured level and format; output goes to the command's stderr and, when
// configured, the log file.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		level, format := "", ""
		var outputs []string
		if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
			level, format = cfg.Logging.Level, cfg.Logging.Format
			if cfg.Logging.File != "" {
				outputs = append(outputs, cfg.Logging.File)
			}
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = *c.logLevelFlag
		}
		if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
			format = *c.logFormatFlag
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       level,
			Format:      format,
			Writer:      cmd.ErrOrStderr(),
			OutputPaths: outputs,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureClients(ctx context.Context) (*awsclient.Clients, error) {
	c.clientsOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.clientsErr = err
			return
		}
		c.clients, c.clientsErr = c.opts.newClients(ctx, cfg)
	})
	return c.clients, c.clientsErr
}

// recordHistory appends entry to the local ledger when it is enabled.
// Ledger failures are logged and never returned.
func (c *commandContext) recordHistory(ctx context.Context, logger *slog.Logger, entry history.Entry) {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil || !cfg.History.Enabled {
		return
	}
	store, err := history.Open(ctx, cfg.HistoryPath())
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if _, err := store.Record(ctx, entry); err != nil {
		logger.Warn("failed to record history", logging.String("handle", entry.Handle), logging.Error(err))
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
