package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fwconv/internal/config"
	"fwconv/internal/journal"
	"fwconv/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = fmt.Errorf("--log-level: %w", err)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// runRecord tracks one conversion for logging and the optional journal.
type runRecord struct {
	ctx    context.Context
	logger *slog.Logger
	store  *journal.Store
	id     int64
}

// beginRun attaches a run id to ctx, builds a run-scoped logger and, when the
// journal is enabled, inserts a running entry.
func (c *commandContext) beginRun(cmd *cobra.Command, run journal.Run) (*runRecord, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	base, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	run.RunID = logging.NewRunID()
	ctx = logging.WithRunID(ctx, run.RunID)
	ctx = logging.WithLayoutPath(ctx, run.LayoutPath)

	rec := &runRecord{
		ctx:    ctx,
		logger: logging.WithContext(ctx, logging.NewComponentLogger(base, run.Command)),
	}
	if !cfg.Journal.Enabled {
		return rec, nil
	}

	store, err := journal.Open(ctx, cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	id, err := store.Begin(ctx, run)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("record run: %w", err)
	}
	rec.store = store
	rec.id = id
	return rec, nil
}

// finish logs the outcome and closes the journal entry. The run error is
// returned unchanged so callers can `return rec.finish(...)`.
func (r *runRecord) finish(lines int, runErr error) error {
	if runErr != nil {
		r.logger.Error("conversion failed", logging.Error(runErr), logging.Lines(lines))
	} else {
		r.logger.Info("conversion complete", logging.Lines(lines))
	}
	if r.store == nil {
		return runErr
	}
	// The command context may already be cancelled; the journal entry should
	// still be closed.
	ctx := context.WithoutCancel(r.ctx)
	if err := r.store.Finish(ctx, r.id, lines, runErr); err != nil {
		r.logger.Warn("journal update failed", logging.Error(err))
	}
	if err := r.store.Close(); err != nil {
		r.logger.Warn("journal close failed", logging.Error(err))
	}
	return runErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
