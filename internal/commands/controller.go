// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ftkit/ftkit/internal/config"
)

type Flags struct {
	LogLevel   string
	ConfigPath string
}

type Controller struct {
	Flags  *Flags
	Config *config.Config
	Logger zerolog.Logger

	// Stdout receives command output and reported failures.
	// Default: os.Stdout
	Stdout io.Writer
}

// setup applies the log level and loads the configuration unless one was
// provided. Its failures are reported like any other command failure.
func (c *Controller) setup() error {
	if c.Flags != nil && c.Flags.LogLevel != "" {
		level, err := zerolog.ParseLevel(c.Flags.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level: %w", err)
		}
		log.Logger = log.Level(level)
		c.Logger = c.Logger.Level(level)
		c.Logger.Debug().Str("level", level.String()).Msg("log level set")
	}

	if c.Config == nil {
		return c.LoadConfig()
	}
	return nil
}

// LoadConfig reads the file named by --config, or searches the working
// directory and its parents for ftkit.yaml.
func (c *Controller) LoadConfig() error {
	if c.Flags != nil && c.Flags.ConfigPath != "" {
		cfg, err := config.LoadConfigFromPath(c.Flags.ConfigPath)
		if err != nil {
			return err
		}
		c.Config = cfg
		c.Logger.Debug().Str("path", c.Flags.ConfigPath).Msg("loaded config")
		return nil
	}

	cfg, root, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	if root != "" {
		c.Logger.Debug().Str("root", root).Msg("loaded config")
	}
	return nil
}

// ProgressFlags carries the progress command line. Nil counts and delays
// fall back to the configuration.
type ProgressFlags struct {
	Count   *int
	Delay   *time.Duration
	Compare bool
	FailAt  int
}

func (c *Controller) Progress(ctx context.Context, flags ProgressFlags) error {
	if err := c.setup(); err != nil {
		report(c.stdout(), c.Logger, err)
		return nil
	}

	cfg := c.config()
	opts := ProgressOptions{
		Count:   cfg.Progress.Count,
		Delay:   cfg.Progress.Delay,
		Compare: flags.Compare,
		FailAt:  flags.FailAt,
	}
	if flags.Count != nil {
		opts.Count = *flags.Count
	}
	if flags.Delay != nil {
		opts.Delay = *flags.Delay
	}

	cmd := NewProgressCommand(cfg, c.stdout(), c.Logger)
	if err := cmd.Execute(ctx, opts); err != nil {
		report(c.stdout(), c.Logger, err)
	}
	return nil
}

func (c *Controller) Filter(ctx context.Context, opts FilterOptions) error {
	if err := c.setup(); err != nil {
		report(c.stdout(), c.Logger, err)
		return nil
	}

	if opts.Watch {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	cmd := NewFilterCommand(c.config(), c.stdout(), c.Logger)
	if err := cmd.Execute(ctx, opts); err != nil {
		report(c.stdout(), c.Logger, err)
	}
	return nil
}

func (c *Controller) config() *config.Config {
	if c.Config == nil {
		return config.Default()
	}
	return c.Config
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}
