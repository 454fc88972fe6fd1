package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ftkit/ftkit/internal/config"
	"github.com/ftkit/ftkit/internal/display"
	"github.com/ftkit/ftkit/internal/pixels"
	"github.com/ftkit/ftkit/internal/watch"
)

// FilterOptions configures the filter command. Empty values fall back to
// the loaded configuration.
type FilterOptions struct {
	Path     string
	Filters  []string
	Colormap string
	Display  string
	SaveDir  string
	Watch    bool
	Docs     bool
	Pick     bool
}

// FilterDependencies for the filter command
type FilterDependencies struct {
	Loader    ImageLoader
	Displayer Displayer
	Picker    FilterPicker
	Watcher   FileWatcher
	Output    io.Writer
	Logger    zerolog.Logger
}

// Interfaces for dependency injection
type ImageLoader interface {
	Load(path string) (*pixels.Array, error)
}

type Displayer interface {
	Display(ctx context.Context, a *pixels.Array, title string, opts display.Options) error
}

type FilterPicker interface {
	Pick(names []string) ([]string, error)
}

type FileWatcher interface {
	// Watch calls onChange for every change to path until ctx is done.
	Watch(ctx context.Context, path string, onChange func()) error
}

// Default implementations
type defaultImageLoader struct{}

func (l *defaultImageLoader) Load(path string) (*pixels.Array, error) {
	return pixels.Load(path)
}

type defaultDisplayer struct{}

func (d *defaultDisplayer) Display(ctx context.Context, a *pixels.Array, title string, opts display.Options) error {
	return display.Display(ctx, a, title, opts)
}

type huhPicker struct {
	opts []tea.ProgramOption
}

func (p *huhPicker) Pick(names []string) ([]string, error) {
	if len(p.opts) == 0 && !term.IsTerminal(os.Stdin.Fd()) {
		return nil, errors.New("--pick requires an interactive terminal")
	}

	selected := slices.Clone(names)
	form := newFilterForm(&selected)

	if len(p.opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, p.opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		if err := form.Run(); err != nil {
			return nil, err
		}
	}
	return selected, nil
}

func newFilterForm(selected *[]string) *huh.Form {
	var options []huh.Option[string]
	for _, f := range pixels.Filters() {
		options = append(options, huh.NewOption(f.Title, f.Name).Selected(slices.Contains(*selected, f.Name)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Filters").
				Description("Choose the filters to apply").
				Options(options...).
				Value(selected).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one filter")
					}
					return nil
				}),
		),
	)
}

type fsnotifyWatcher struct {
	logger zerolog.Logger
}

func (w *fsnotifyWatcher) Watch(ctx context.Context, path string, onChange func()) error {
	fw, err := watch.ForFile(path, w.logger, func(string, fsnotify.Op) { onChange() })
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// FilterCommand loads an image, applies the selected filters and shows
// every result.
type FilterCommand struct {
	cfg  *config.Config
	deps FilterDependencies
}

// NewFilterCommand creates a new filter command with default dependencies
func NewFilterCommand(cfg *config.Config, out io.Writer, logger zerolog.Logger) *FilterCommand {
	logger = logger.With().Str("command", "filter").Logger()
	return &FilterCommand{
		cfg: cfg,
		deps: FilterDependencies{
			Loader:    &defaultImageLoader{},
			Displayer: &defaultDisplayer{},
			Picker:    &huhPicker{},
			Watcher:   &fsnotifyWatcher{logger: logger},
			Output:    out,
			Logger:    logger,
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (fc *FilterCommand) WithDependencies(deps FilterDependencies) *FilterCommand {
	fc.deps = deps
	return fc
}

// Execute runs the filters once, or on every change of the image when
// opts.Watch is set. In watch mode failures are reported and watching
// continues until ctx is done.
func (fc *FilterCommand) Execute(ctx context.Context, opts FilterOptions) error {
	if opts.Path == "" {
		return errors.New("image path is required")
	}

	filters, err := fc.selectFilters(opts)
	if err != nil {
		return err
	}

	dopts, err := fc.displayOptions(opts)
	if err != nil {
		return err
	}

	var override display.Colormap
	if opts.Colormap != "" {
		if override, err = display.ParseColormap(opts.Colormap); err != nil {
			return err
		}
	}

	run := func() error {
		return fc.apply(ctx, opts, filters, dopts, override)
	}

	if !opts.Watch {
		return run()
	}

	runAndReport := func() {
		if err := run(); err != nil {
			report(fc.deps.Output, fc.deps.Logger, err)
		}
	}

	runAndReport()
	fmt.Fprintf(fc.deps.Output, "Watching %s for changes (press Ctrl+C to stop)\n", opts.Path)
	return fc.deps.Watcher.Watch(ctx, opts.Path, func() {
		fc.deps.Logger.Info().Str("path", opts.Path).Msg("image changed")
		runAndReport()
	})
}

// apply loads the image and shows each filter result in registry order.
func (fc *FilterCommand) apply(ctx context.Context, opts FilterOptions, filters []pixels.Filter, dopts display.Options, override display.Colormap) error {
	img, err := fc.deps.Loader.Load(opts.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(fc.deps.Output, "The shape of image is: %s\n", pixels.FormatShape(img))

	for _, f := range filters {
		result, err := f.Apply(img)
		if err != nil {
			return err
		}

		o := dopts
		o.Colormap, err = fc.colormapFor(f, override)
		if err != nil {
			return err
		}

		fc.deps.Logger.Debug().
			Str("filter", f.Name).
			Str("shape", pixels.FormatShape(result)).
			Msg("applied filter")

		if err := fc.deps.Displayer.Display(ctx, result, f.Title, o); err != nil {
			return err
		}
	}

	if opts.Docs {
		for _, f := range filters {
			fmt.Fprintln(fc.deps.Output, f.Doc)
		}
	}
	return nil
}

// selectFilters resolves the filter names from flags, the picker or the
// config, in that order, and returns them in registry order.
func (fc *FilterCommand) selectFilters(opts FilterOptions) ([]pixels.Filter, error) {
	names := opts.Filters
	switch {
	case len(names) > 0:
	case opts.Pick:
		picked, err := fc.deps.Picker.Pick(fc.defaultNames())
		if err != nil {
			return nil, fmt.Errorf("failed to pick filters: %w", err)
		}
		names = picked
	default:
		names = fc.defaultNames()
	}

	for _, name := range names {
		if _, ok := pixels.Lookup(name); !ok {
			return nil, fmt.Errorf("unknown filter %q (available: %s)", name, strings.Join(pixels.Names(), ", "))
		}
	}

	var filters []pixels.Filter
	for _, f := range pixels.Filters() {
		if slices.Contains(names, f.Name) {
			filters = append(filters, f)
		}
	}
	return filters, nil
}

func (fc *FilterCommand) defaultNames() []string {
	if len(fc.cfg.Filters) > 0 {
		return fc.cfg.Filters
	}
	return pixels.Names()
}

func (fc *FilterCommand) displayOptions(opts FilterOptions) (display.Options, error) {
	modeName := opts.Display
	if modeName == "" {
		modeName = fc.cfg.Display.Mode
	}
	mode, err := display.ParseMode(modeName)
	if err != nil {
		return display.Options{}, err
	}

	saveDir := opts.SaveDir
	if saveDir == "" {
		saveDir = fc.cfg.Display.SaveDir
	}

	return display.Options{
		Mode:     mode,
		Output:   fc.deps.Output,
		MaxWidth: fc.cfg.Display.MaxWidth,
		SaveDir:  saveDir,
	}, nil
}

// colormapFor picks the flag override, then the filter's own colormap,
// then the configured default.
func (fc *FilterCommand) colormapFor(f pixels.Filter, override display.Colormap) (display.Colormap, error) {
	switch {
	case override != display.Natural:
		return override, nil
	case f.Colormap != "":
		return display.ParseColormap(f.Colormap)
	default:
		return display.ParseColormap(fc.cfg.Display.Colormap)
	}
}
