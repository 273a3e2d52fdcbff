package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/runa/internal/config"
	"github.com/kk-code-lab/runa/internal/dispatch"
	"github.com/kk-code-lab/runa/internal/fileops"
	"github.com/kk-code-lab/runa/internal/find"
	"github.com/kk-code-lab/runa/internal/loader"
	"github.com/kk-code-lab/runa/internal/logging"
	"github.com/kk-code-lab/runa/internal/preview"
	"github.com/kk-code-lab/runa/internal/protocol"
	statepkg "github.com/kk-code-lab/runa/internal/state"
	"github.com/kk-code-lab/runa/internal/ui/input"
	renderui "github.com/kk-code-lab/runa/internal/ui/render"
	"github.com/kk-code-lab/runa/internal/worker"
)

const actionBuffer = 64

// Options configures a new Application.
type Options struct {
	// Dir is the starting directory. Empty means the working directory.
	Dir    string
	Config *config.Config
	Logger *slog.Logger
	// Screen overrides the terminal, mainly for tests.
	Screen tcell.Screen
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	renderer   *renderui.Renderer
	input      *input.InputHandler
	pool       *worker.Pool
	actionCh   chan statepkg.Action
	logger     *slog.Logger
	shouldQuit bool

	editorCmd []string
	clipboard func(string) error
}

// NewApplication wires the worker pool, the reducer and the terminal.
func NewApplication(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	dir := opts.Dir
	if dir == "" {
		cwd, err := GetCwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.Dir, err)
	}

	settings, err := statepkg.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	screen := opts.Screen
	if screen == nil {
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	finder := find.NewFinder(cfg.Find.Tool, logger)
	pool := worker.New(worker.Config{
		Handlers: map[protocol.Kind]worker.HandlerFunc{
			protocol.KindList:    loader.NewDirectory().Handle,
			protocol.KindPreview: preview.NewService(preview.NewFormatter(), logger).Handle,
			protocol.KindFind:    finder.Handle,
			protocol.KindFileOp:  fileops.NewExecutor(logger).Handle,
		},
		Logger: logger,
	})

	reducer := statepkg.NewStateReducer(statepkg.ReducerConfig{
		Dispatcher:    dispatch.New(pool, logger),
		FindAvailable: finder.Available,
		Cancel:        pool.Cancel,
		Logger:        logger,
	})

	state := statepkg.NewAppState(dir, settings)
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	keymap, keyErrs := input.NewKeymap(cfg.Keys)
	for _, kerr := range keyErrs {
		logger.Warn("ignoring key binding", "error", kerr)
	}

	actionCh := make(chan statepkg.Action, actionBuffer)
	inputHandler := input.NewInputHandler(actionCh, keymap)
	inputHandler.SetState(state)

	editorCmd, editorAvail := detectEditorCommand(cfg.Editor.Cmd)
	if !editorAvail {
		logger.Info("no editor found")
	}

	return &Application{
		screen:    screen,
		state:     state,
		reducer:   reducer,
		renderer:  renderui.NewRenderer(screen),
		input:     inputHandler,
		pool:      pool,
		actionCh:  actionCh,
		logger:    logger,
		editorCmd: editorCmd,
		clipboard: clipboard.WriteAll,
	}, nil
}

// Close stops the workers and restores the terminal.
func (app *Application) Close() error {
	err := app.pool.Close()
	app.screen.Fini()
	return err
}

// CurrentDir returns the directory shown when the app stopped.
func (app *Application) CurrentDir() string {
	return app.state.Nav.CurrentDir
}

// GetCwd returns current working directory.
func GetCwd() (string, error) {
	return os.Getwd()
}
