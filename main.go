package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/ftkit/ftkit/internal/commands"
	"github.com/ftkit/ftkit/internal/pixels"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "ftkit",
		Usage:   "Terminal progress bars and image colour filters",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("FTKIT_LOG_LEVEL"),
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to ftkit.yaml (default: search the working directory and its parents)",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Parsed by the controller so that a bad level or config is
			// reported by the command like any other failure.
			ctrl.Flags.LogLevel = c.String("log-level")
			ctrl.Flags.ConfigPath = c.String("config")
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "progress",
				Usage: "Run a delayed loop through the progress iterator",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "count",
						Usage: "number of items",
						Value: 10,
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "delay per item",
						Value: 500 * time.Millisecond,
					},
					&cli.BoolFlag{
						Name:  "compare",
						Usage: "repeat the loop with a reference progress bar",
						Value: true,
					},
					&cli.IntFlag{
						Name:  "fail-at",
						Usage: "make the source fail at this item (negative never fails)",
						Value: -1,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					flags := commands.ProgressFlags{
						Compare: c.Bool("compare"),
						FailAt:  int(c.Int("fail-at")),
					}
					if c.IsSet("count") {
						count := int(c.Int("count"))
						flags.Count = &count
					}
					if c.IsSet("delay") {
						delay := c.Duration("delay")
						flags.Delay = &delay
					}
					return ctrl.Progress(ctx, flags)
				},
			},
			{
				Name:      "filter",
				Usage:     "Apply colour filters to an image and display the results",
				ArgsUsage: "<image>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "filter",
						Usage: fmt.Sprintf("filter to apply, repeatable (%v)", pixels.Names()),
					},
					&cli.StringFlag{
						Name:  "colormap",
						Usage: "colormap for every result (gray, viridis, hot)",
					},
					&cli.StringFlag{
						Name:  "display",
						Usage: "display mode (auto, tui, text, none)",
					},
					&cli.StringFlag{
						Name:  "save",
						Usage: "directory to write each result to as PNG",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "re-run whenever the image changes",
					},
					&cli.BoolFlag{
						Name:  "docs",
						Usage: "print the documentation of each applied filter",
					},
					&cli.BoolFlag{
						Name:  "pick",
						Usage: "choose the filters interactively",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Filter(ctx, commands.FilterOptions{
						Path:     c.Args().First(),
						Filters:  c.StringSlice("filter"),
						Colormap: c.String("colormap"),
						Display:  c.String("display"),
						SaveDir:  c.String("save"),
						Watch:    c.Bool("watch"),
						Docs:     c.Bool("docs"),
						Pick:     c.Bool("pick"),
					})
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run ftkit")
	}
}
