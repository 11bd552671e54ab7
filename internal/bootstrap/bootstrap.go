package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	idleinadapter "tasktrack/internal/modules/idle/adapter/in"
	idleoutadapter "tasktrack/internal/modules/idle/adapter/out"
	idledto "tasktrack/internal/modules/idle/dto"
	idleout "tasktrack/internal/modules/idle/port/out"
	idleusecase "tasktrack/internal/modules/idle/usecase"
	trackerinadapter "tasktrack/internal/modules/tracker/adapter/in"
	trackeroutadapter "tasktrack/internal/modules/tracker/adapter/out"
	trackerservice "tasktrack/internal/modules/tracker/service"
	trackerusecase "tasktrack/internal/modules/tracker/usecase"
	"tasktrack/internal/platform/clock"
	"tasktrack/internal/platform/config"
	"tasktrack/internal/platform/kv"
	"tasktrack/internal/platform/logging"
	uiapp "tasktrack/internal/ui/app"
)

type App struct {
	Config     config.Config
	Log        *logrus.Logger
	TrackerCLI trackerinadapter.CLIHandler
	AutoStop   trackerinadapter.AutoStopHandler
	IdleCLI    idleinadapter.CLIHandler

	store   kv.Store
	closers []io.Closer
}

// New wires both modules against the configured store. stdout receives CSV
// exports addressed to "-".
func New(cfg config.Config, log *logrus.Logger, stdout io.Writer) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := kv.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	app := &App{Config: cfg, Log: log, store: store, closers: []io.Closer{store}}

	clk := clock.SystemClock{}
	exportPath := cfg.Export.FileName
	if exportPath != "" && !filepath.IsAbs(exportPath) {
		if wd, err := os.Getwd(); err == nil {
			exportPath = filepath.Join(wd, exportPath)
		}
	}
	trackerUC := trackerusecase.NewInteractor(
		trackerservice.NewTrackerService(clk, trackeroutadapter.NewKVLedgerStore(store)),
		trackerusecase.Dependencies{
			Catalog:  trackeroutadapter.NewKVCatalogStore(store),
			Active:   trackeroutadapter.NewKVActiveTimerStore(store),
			Tx:       store,
			Exporter: trackeroutadapter.NewCSVExportWriter(exportPath, stdout),
			Notes:    trackeroutadapter.NewMarkdownSummaryNote(clk),
			Log:      logging.Component(log, "tracker"),
		},
	)
	app.TrackerCLI = trackerinadapter.NewCLIHandler(trackerUC)
	app.AutoStop = trackerinadapter.NewAutoStopHandler(trackerUC)

	idleLog := logging.Component(log, "idle")
	probe := app.newProbe()
	var sources []idleout.SignalSource
	if probe != nil {
		sources = append(sources, idleoutadapter.NewPollingSource(
			probe, cfg.Idle.PollInterval.Duration, cfg.Idle.Threshold.Duration, idleLog))
	}
	if !cfg.Idle.IgnoreSuspend {
		sources = append(sources, idleoutadapter.NewSuspendSignalSource())
	}
	app.IdleCLI = idleinadapter.NewCLIHandler(idleusecase.NewInteractor(idleusecase.Config{
		Sources:   sources,
		Probe:     probe,
		Threshold: cfg.Idle.Threshold.Duration,
		Log:       idleLog,
	}))
	return app, nil
}

func (a *App) newProbe() idleout.StateProbe {
	switch a.Config.Idle.Probe {
	case config.ProbeNone:
		return nil
	case config.ProbeCommand:
		return idleoutadapter.NewCommandProbe()
	case config.ProbePlugin:
		return a.pluginProbe()
	default:
		if a.Config.Idle.PluginBinary != "" {
			return a.pluginProbe()
		}
		return idleoutadapter.NewCommandProbe()
	}
}

func (a *App) pluginProbe() idleout.StateProbe {
	probe := idleoutadapter.NewPluginProbe(a.Config.Idle.PluginBinary)
	a.closers = append(a.closers, probe)
	return probe
}

// Close releases the plugin process and the store.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunWatch runs the idle monitor in the foreground, stopping the running
// timer on every auto-stop until ctx ends or a suspend arrives.
func RunWatch(ctx context.Context, app *App) error {
	app.Log.WithField("component", "watch").Info("idle watcher running")
	return app.IdleCLI.Watch(ctx, app.AutoStop.Handle)
}

const idleSuspendTrigger = "suspend"

// RunTUI runs the popup with the idle monitor in the background. A suspend
// signal stops the timer and closes the UI.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.TrackerCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		err := app.IdleCLI.Watch(ctx, func(ctx context.Context, msg idledto.Message) error {
			err := app.AutoStop.Handle(ctx, msg)
			stop, _ := msg.(idledto.AutoStop)
			program.Send(uiapp.AutoStoppedMsg{Trigger: stop.Trigger, Err: err})
			if stop.Trigger == idleSuspendTrigger {
				program.Quit()
			}
			return err
		})
		if err != nil {
			app.Log.WithError(err).Warn("idle watcher stopped")
		}
	}()

	_, err := program.Run()
	cancel()
	<-watchDone
	return err
}
