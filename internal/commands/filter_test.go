package commands

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ftkit/ftkit/internal/config"
	"github.com/ftkit/ftkit/internal/display"
	"github.com/ftkit/ftkit/internal/pixels"
	"github.com/ftkit/ftkit/internal/testutil"
)

// Mock implementations for filter command
type mockImageLoader struct {
	mock.Mock
}

func (m *mockImageLoader) Load(path string) (*pixels.Array, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pixels.Array), args.Error(1)
}

type shown struct {
	title    string
	colormap display.Colormap
	shape    string
	opts     display.Options
}

type recordingDisplayer struct {
	shown []shown
	err   error
}

func (d *recordingDisplayer) Display(ctx context.Context, a *pixels.Array, title string, opts display.Options) error {
	d.shown = append(d.shown, shown{
		title:    title,
		colormap: opts.Colormap,
		shape:    pixels.FormatShape(a),
		opts:     opts,
	})
	return d.err
}

func (d *recordingDisplayer) titles() []string {
	var titles []string
	for _, s := range d.shown {
		titles = append(titles, s.title)
	}
	return titles
}

type fakePicker struct {
	offered []string
	picked  []string
	err     error
}

func (p *fakePicker) Pick(names []string) ([]string, error) {
	p.offered = names
	return p.picked, p.err
}

// fakeWatcher fires onChange a fixed number of times, then returns.
type fakeWatcher struct {
	changes int
	path    string
	err     error
}

func (w *fakeWatcher) Watch(ctx context.Context, path string, onChange func()) error {
	w.path = path
	for range w.changes {
		onChange()
	}
	return w.err
}

func testImage(t *testing.T) *pixels.Array {
	t.Helper()
	a, err := pixels.FromData(2, 2, 3, []float64{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})
	require.NoError(t, err)
	return a
}

type filterFixture struct {
	out       *bytes.Buffer
	loader    *mockImageLoader
	displayer *recordingDisplayer
	picker    *fakePicker
	watcher   *fakeWatcher
	cfg       *config.Config
}

func newFilterFixture() *filterFixture {
	return &filterFixture{
		out:       &bytes.Buffer{},
		loader:    new(mockImageLoader),
		displayer: &recordingDisplayer{},
		picker:    &fakePicker{},
		watcher:   &fakeWatcher{},
		cfg:       config.Default(),
	}
}

func (f *filterFixture) command() *FilterCommand {
	return NewFilterCommand(f.cfg, f.out, zerolog.Nop()).WithDependencies(FilterDependencies{
		Loader:    f.loader,
		Displayer: f.displayer,
		Picker:    f.picker,
		Watcher:   f.watcher,
		Output:    f.out,
		Logger:    zerolog.Nop(),
	})
}

func TestFilterCommand_Execute_AllFilters(t *testing.T) {
	f := newFilterFixture()
	f.loader.On("Load", "landscape.jpg").Return(testImage(t), nil)

	err := f.command().Execute(context.Background(), FilterOptions{Path: "landscape.jpg"})
	require.NoError(t, err)

	assert.Equal(t, "The shape of image is: (2, 2, 3)\n", f.out.String())
	assert.Equal(t, []string{"Invert", "Red", "Green", "Blue", "Grey"}, f.displayer.titles())

	for _, s := range f.displayer.shown {
		switch s.title {
		case "Grey":
			assert.Equal(t, display.Gray, s.colormap)
			assert.Equal(t, "(2, 2, 1)", s.shape)
		default:
			assert.Equal(t, display.Natural, s.colormap)
			assert.Equal(t, "(2, 2, 3)", s.shape)
		}
		assert.Equal(t, display.ModeAuto, s.opts.Mode)
		assert.Equal(t, display.DefaultMaxWidth, s.opts.MaxWidth)
	}
	f.loader.AssertExpectations(t)
}

func TestFilterCommand_Execute_SelectedFiltersKeepRegistryOrder(t *testing.T) {
	f := newFilterFixture()
	f.loader.On("Load", "a.png").Return(testImage(t), nil)

	err := f.command().Execute(context.Background(), FilterOptions{
		Path:    "a.png",
		Filters: []string{"grey", "red"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Red", "Grey"}, f.displayer.titles())
}

func TestFilterCommand_Execute_ConfigDefaults(t *testing.T) {
	f := newFilterFixture()
	f.cfg.Filters = []string{"blue"}
	f.cfg.Display.Colormap = "viridis"
	f.cfg.Display.Mode = "text"
	f.cfg.Display.SaveDir = "out"
	f.loader.On("Load", "a.png").Return(testImage(t), nil)

	err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png"})
	require.NoError(t, err)

	require.Len(t, f.displayer.shown, 1)
	s := f.displayer.shown[0]
	assert.Equal(t, "Blue", s.title)
	assert.Equal(t, display.Viridis, s.colormap)
	assert.Equal(t, display.ModeText, s.opts.Mode)
	assert.Equal(t, "out", s.opts.SaveDir)
}

func TestFilterCommand_Execute_ColormapPrecedence(t *testing.T) {
	f := newFilterFixture()
	f.cfg.Display.Colormap = "viridis"
	f.loader.On("Load", "a.png").Return(testImage(t), nil)

	err := f.command().Execute(context.Background(), FilterOptions{
		Path:     "a.png",
		Filters:  []string{"invert", "grey"},
		Colormap: "hot",
		Display:  "none",
		SaveDir:  "flag-dir",
	})
	require.NoError(t, err)

	require.Len(t, f.displayer.shown, 2)
	for _, s := range f.displayer.shown {
		assert.Equal(t, display.Hot, s.colormap, s.title)
		assert.Equal(t, display.ModeNone, s.opts.Mode)
		assert.Equal(t, "flag-dir", s.opts.SaveDir)
	}
}

func TestFilterCommand_Execute_Docs(t *testing.T) {
	f := newFilterFixture()
	f.loader.On("Load", "a.png").Return(testImage(t), nil)

	err := f.command().Execute(context.Background(), FilterOptions{
		Path:    "a.png",
		Filters: []string{"invert", "grey"},
		Docs:    true,
	})
	require.NoError(t, err)

	got := f.out.String()
	invert := strings.Index(got, "Inverts the colors of the image.")
	grey := strings.Index(got, "Applies a grey color filter to the image.")
	assert.Greater(t, invert, 0)
	assert.Greater(t, grey, invert)
}

func TestFilterCommand_Execute_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		f := newFilterFixture()
		err := f.command().Execute(context.Background(), FilterOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image path is required")
	})

	t.Run("unknown filter", func(t *testing.T) {
		f := newFilterFixture()
		err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png", Filters: []string{"sepia"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown filter "sepia"`)
		assert.Contains(t, err.Error(), "invert, red, green, blue, grey")
	})

	t.Run("unknown colormap", func(t *testing.T) {
		f := newFilterFixture()
		err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png", Colormap: "jet"})
		assert.Error(t, err)
	})

	t.Run("unknown display mode", func(t *testing.T) {
		f := newFilterFixture()
		err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png", Display: "window"})
		assert.Error(t, err)
	})

	t.Run("load failure", func(t *testing.T) {
		f := newFilterFixture()
		loadErr := &pixels.LoadError{Path: "missing.jpg", Err: fs.ErrNotExist}
		f.loader.On("Load", "missing.jpg").Return(nil, loadErr)

		err := f.command().Execute(context.Background(), FilterOptions{Path: "missing.jpg"})
		assert.Same(t, loadErr, err)
		assert.Empty(t, f.displayer.shown)
	})

	t.Run("single plane input", func(t *testing.T) {
		f := newFilterFixture()
		grey, err := pixels.NewArray(2, 2, 1)
		require.NoError(t, err)
		f.loader.On("Load", "grey.png").Return(grey, nil)

		err = f.command().Execute(context.Background(), FilterOptions{Path: "grey.png"})

		var perr *pixels.ProcessingError
		require.True(t, errors.As(err, &perr))
		assert.ErrorIs(t, err, pixels.ErrShape)
		assert.Empty(t, f.displayer.shown)
	})

	t.Run("display failure stops the run", func(t *testing.T) {
		f := newFilterFixture()
		f.displayer.err = &pixels.ProcessingError{Op: "displaying the image", Err: errors.New("no screen")}
		f.loader.On("Load", "a.png").Return(testImage(t), nil)

		err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png"})
		assert.Same(t, f.displayer.err, err)
		assert.Len(t, f.displayer.shown, 1)
	})
}

func TestFilterCommand_Execute_Pick(t *testing.T) {
	f := newFilterFixture()
	f.picker.picked = []string{"green"}
	f.loader.On("Load", "a.png").Return(testImage(t), nil)

	err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png", Pick: true})
	require.NoError(t, err)

	assert.Equal(t, pixels.Names(), f.picker.offered)
	assert.Equal(t, []string{"Green"}, f.displayer.titles())
}

func TestFilterCommand_Execute_PickError(t *testing.T) {
	f := newFilterFixture()
	f.picker.err = errors.New("user aborted")

	err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png", Pick: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to pick filters")
}

func TestFilterCommand_Execute_Watch(t *testing.T) {
	f := newFilterFixture()
	f.watcher.changes = 2
	f.loader.On("Load", "a.png").Return(testImage(t), nil)

	err := f.command().Execute(context.Background(), FilterOptions{
		Path:    "a.png",
		Filters: []string{"red"},
		Watch:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "a.png", f.watcher.path)
	f.loader.AssertNumberOfCalls(t, "Load", 3)
	assert.Equal(t, []string{"Red", "Red", "Red"}, f.displayer.titles())
	assert.Contains(t, f.out.String(), "Watching a.png for changes")
}

func TestFilterCommand_Execute_WatchReportsFailures(t *testing.T) {
	f := newFilterFixture()
	f.watcher.changes = 1
	f.loader.On("Load", "a.png").Return(nil, &pixels.LoadError{Path: "a.png", Err: fs.ErrNotExist})

	err := f.command().Execute(context.Background(), FilterOptions{Path: "a.png", Watch: true})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(f.out.String(), "LoadError: failed to load image a.png"))
	f.loader.AssertNumberOfCalls(t, "Load", 2)
}

func TestController_Filter_ReportsFailure(t *testing.T) {
	var out bytes.Buffer
	ctrl := &Controller{
		Flags:  &Flags{},
		Config: config.Default(),
		Logger: zerolog.Nop(),
		Stdout: &out,
	}

	err := ctrl.Filter(context.Background(), FilterOptions{Path: "/nonexistent/landscape.jpg"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "LoadError: failed to load image /nonexistent/landscape.jpg"))
}

func TestNewFilterForm(t *testing.T) {
	selected := []string{"red"}
	form := newFilterForm(&selected)
	assert.NotNil(t, form)
}

func TestController_Filter_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteImage(t, dir, "landscape.png", testutil.Gradient(6, 4))
	saveDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	ctrl := &Controller{
		Flags:  &Flags{},
		Config: config.Default(),
		Logger: zerolog.Nop(),
		Stdout: &out,
	}

	err := ctrl.Filter(context.Background(), FilterOptions{
		Path:    path,
		Display: "text",
		SaveDir: saveDir,
		Docs:    true,
	})
	require.NoError(t, err)

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "The shape of image is: (4, 6, 3)\n"))
	for _, title := range []string{"Invert", "Red", "Green", "Blue", "Grey"} {
		assert.Contains(t, got, title)
		assert.FileExists(t, filepath.Join(saveDir, strings.ToLower(title)+".png"))
	}
	assert.Contains(t, got, "Applies a grey color filter to the image.")
	assert.NotContains(t, got, "Error")
}
