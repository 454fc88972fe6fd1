package commands

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/rs/zerolog"

	"github.com/ftkit/ftkit/internal/config"
	"github.com/ftkit/ftkit/internal/progress"
)

// ProgressOptions configures the progress demonstration.
type ProgressOptions struct {
	Count   int
	Delay   time.Duration
	Compare bool
	FailAt  int // index at which the source fails; negative never fails
}

// InjectedFailure is the error produced by the demo source at FailAt.
type InjectedFailure struct {
	Index int
}

func (e *InjectedFailure) Error() string {
	return fmt.Sprintf("source failed at item %d", e.Index)
}

// ProgressDependencies for the progress command
type ProgressDependencies struct {
	Output io.Writer
	Sleep  func(ctx context.Context, d time.Duration) error
	Clock  func() time.Time
	Logger zerolog.Logger
}

// ProgressCommand runs a delayed loop through the progress iterator and,
// optionally, through a reference bar for comparison.
type ProgressCommand struct {
	cfg  config.ProgressConfig
	deps ProgressDependencies
}

// NewProgressCommand creates a new progress command with default dependencies
func NewProgressCommand(cfg *config.Config, out io.Writer, logger zerolog.Logger) *ProgressCommand {
	return &ProgressCommand{
		cfg: cfg.Progress,
		deps: ProgressDependencies{
			Output: out,
			Sleep:  sleepContext,
			Clock:  time.Now,
			Logger: logger.With().Str("command", "progress").Logger(),
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (pc *ProgressCommand) WithDependencies(deps ProgressDependencies) *ProgressCommand {
	pc.deps = deps
	return pc
}

// Execute runs the demonstration. Errors from the source are returned
// unchanged.
func (pc *ProgressCommand) Execute(ctx context.Context, opts ProgressOptions) error {
	if opts.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", opts.Count)
	}

	pc.deps.Logger.Debug().
		Int("count", opts.Count).
		Dur("delay", opts.Delay).
		Int("fail_at", opts.FailAt).
		Msg("starting progress demo")

	barOpts := progress.Options{
		Output:      pc.deps.Output,
		Width:       pc.cfg.Width,
		Description: pc.cfg.Description,
		ASCII:       pc.cfg.ASCII,
		MinInterval: pc.cfg.MinInterval,
		Clock:       pc.deps.Clock,
		Logger:      &pc.deps.Logger,
	}

	for _, err := range progress.WrapErr(pc.source(opts), opts.Count, barOpts) {
		if err != nil {
			return err
		}
		if err := pc.deps.Sleep(ctx, opts.Delay); err != nil {
			fmt.Fprintln(pc.deps.Output)
			return err
		}
	}
	fmt.Fprintln(pc.deps.Output)

	if opts.Compare {
		return pc.reference(ctx, opts)
	}
	return nil
}

func (pc *ProgressCommand) source(opts ProgressOptions) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for i := range opts.Count {
			if i == opts.FailAt {
				yield(i, &InjectedFailure{Index: i})
				return
			}
			if !yield(i, nil) {
				return
			}
		}
	}
}

// reference runs the same loop through the bubbles progress bar.
func (pc *ProgressCommand) reference(ctx context.Context, opts ProgressOptions) error {
	width := pc.cfg.Width
	if width <= 0 {
		width = progress.DefaultWidth
	}
	bar := bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(width))

	draw := func(done int) {
		frac := 1.0
		if opts.Count > 0 {
			frac = float64(done) / float64(opts.Count)
		}
		fmt.Fprintf(pc.deps.Output, "\r%s %d/%d", bar.ViewAs(frac), done, opts.Count)
	}

	draw(0)
	for i := range opts.Count {
		if err := pc.deps.Sleep(ctx, opts.Delay); err != nil {
			fmt.Fprintln(pc.deps.Output)
			return err
		}
		draw(i + 1)
	}
	fmt.Fprintln(pc.deps.Output)
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
