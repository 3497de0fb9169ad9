package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelcut/internal/config"
	"reelcut/internal/logging"
	"reelcut/internal/project"
	"reelcut/internal/store"
)

type globalFlags struct {
	config  string
	project string
	json    bool
	verbose bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger *slog.Logger
	store  *store.Store
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
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

// ensureLogger writes to the log file, and to stderr with --verbose, so
// stdout stays clean for command output.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, c.flags.verbose)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	c.logger = logger
	return logger, nil
}

func (c *commandContext) ensureStore() (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.store = st
	return st, nil
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func (c *commandContext) sessionOptions() (project.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return project.Options{}, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return project.Options{}, err
	}
	return project.OptionsFromConfig(cfg, logger), nil
}

// loadSession restores the project named by --project.
func (c *commandContext) loadSession(ctx context.Context) (*project.Session, error) {
	st, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	summary, err := st.Find(ctx, c.flags.project)
	if err != nil {
		return nil, err
	}
	env, err := st.Load(ctx, summary.ID)
	if err != nil {
		return nil, err
	}
	opts, err := c.sessionOptions()
	if err != nil {
		return nil, err
	}
	return project.Restore(env, opts)
}

// editSession loads the target project under the write lock, applies fn, and
// saves the result only when fn succeeds.
func (c *commandContext) editSession(ctx context.Context, fn func(*project.Session) error) error {
	st, err := c.ensureStore()
	if err != nil {
		return err
	}
	return st.WithWriteLock(ctx, func() error {
		session, err := c.loadSession(ctx)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}
		return st.Save(ctx, session.Snapshot())
	})
}

func (c *commandContext) jsonOutput() bool {
	return c.flags.json
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
