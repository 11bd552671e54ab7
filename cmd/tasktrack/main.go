package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tasktrack/internal/bootstrap"
	trackerinadapter "tasktrack/internal/modules/tracker/adapter/in"
	trackerdto "tasktrack/internal/modules/tracker/dto"
	"tasktrack/internal/platform/config"
	apperrors "tasktrack/internal/platform/errors"
	"tasktrack/internal/platform/logging"
	"tasktrack/internal/platform/timefmt"
)

const logFileName = "tasktrack.log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir    string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tasktrack",
		Short:         "Project and task time tracker with idle auto-stop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", config.DefaultDataDir(), "directory holding config and the time ledger")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level: trace|debug|info|warn|error")

	root.AddCommand(newProjectCmd(opts))
	root.AddCommand(newTaskCmd(opts))
	root.AddCommand(newStartCmd(opts))
	root.AddCommand(newStopCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newSummaryCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newIdleCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newServiceCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.dataDir, opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

// loadApp builds the application, logging to logOut and writing "-" exports
// to stdout.
func loadApp(opts *rootOptions, logOut, stdout io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, log, stdout)
}

// withApp runs fn against a freshly loaded app and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(*bootstrap.App) error) error {
	app, err := loadApp(opts, cmd.ErrOrStderr(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	runErr := fn(app)
	return errors.Join(runErr, app.Close())
}

func newProjectCmd(opts *rootOptions) *cobra.Command {
	project := &cobra.Command{Use: "project", Short: "Manage projects"}

	var runtime, boxes int
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project or overwrite its runtime and boxes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.AddProject(context.Background(), args[0], runtime, boxes)
				if err != nil {
					return err
				}
				verb := "updated"
				if out.Added {
					verb = "added"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "project %s: %s runtime=%dm boxes=%d\n", verb, out.Name, out.Runtime, out.Boxes)
				return nil
			})
		},
	}
	add.Flags().IntVar(&runtime, "runtime", 0, "runtime in minutes")
	add.Flags().IntVar(&boxes, "boxes", 0, "box count")

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				projects, err := app.TrackerCLI.ListProjects(context.Background())
				if err != nil {
					return err
				}
				if len(projects) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no projects")
					return nil
				}
				for _, p := range projects {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s runtime=%dm boxes=%d\n", p.Name, p.Runtime, p.Boxes)
				}
				return nil
			})
		},
	}

	project.AddCommand(add, list)
	return project
}

func newTaskCmd(opts *rootOptions) *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks"}

	task.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.AddTask(context.Background(), args[0])
				if err != nil {
					return err
				}
				if out.Added {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task added: %s\n", out.Name)
				}
				return nil
			})
		},
	})

	task.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				tasks, err := app.TrackerCLI.ListTasks(context.Background())
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
					return nil
				}
				for _, t := range tasks {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			})
		},
	})
	return task
}

func newStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <project> <task>",
		Short: "Start the timer, logging any running timer first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Start(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				if prev := out.Previous; prev != nil {
					printSession(cmd.OutOrStdout(), "logged", *prev)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s / %s at %s\n", out.Active.Project, out.Active.Task, out.Active.StartedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newStopCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer and log the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Stop(context.Background())
				if err != nil {
					return err
				}
				if !out.Stopped {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no timer running")
					return nil
				}
				printSession(cmd.OutOrStdout(), "stopped", out.Session)
				return nil
			})
		},
	}
}

func printSession(w io.Writer, verb string, s trackerdto.CommittedSession) {
	_, _ = fmt.Fprintf(w, "%s %s / %s: %s (%sh)\n", verb, s.Project, s.Task, timefmt.Clock(s.Duration), timefmt.Hours(s.Duration))
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var follow bool
	status := &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				active, err := app.TrackerCLI.GetActive(context.Background())
				if errors.Is(err, apperrors.ErrNoActiveTimer) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no timer running")
					return nil
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "%s / %s since %s\n", active.Project, active.Task, active.StartedAt.Local().Format(time.DateTime))
				if !follow {
					_, _ = fmt.Fprintln(out, trackerinadapter.Elapsed(active, time.Now()))
					return nil
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				ticker := trackerinadapter.NewTicker(trackerinadapter.RefreshInterval, time.Now)
				ticker.Start(active, func(elapsed string) {
					_, _ = fmt.Fprintf(out, "\r%s", elapsed)
				})
				<-ctx.Done()
				ticker.Stop()
				_, _ = fmt.Fprintln(out)
				return nil
			})
		},
	}
	status.Flags().BoolVarP(&follow, "follow", "f", false, "keep redrawing the elapsed time until interrupted")
	return status
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export every logged session as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Export(context.Background(), outPath)
				if err != nil {
					return err
				}
				if out.Path != "-" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d sessions to %s\n", out.Rows, out.Path)
				}
				return nil
			})
		},
	}
	export.Flags().StringVarP(&outPath, "out", "o", "", "CSV path, or - for stdout (default from config: task_log.csv)")
	return export
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var markdownPath string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show the two most recently tracked projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				if markdownPath != "" {
					out, err := app.TrackerCLI.WriteSummaryNote(context.Background(), markdownPath)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "summary note written: %s projects=%d\n", out.Path, out.Projects)
					return nil
				}
				out, err := app.TrackerCLI.Summary(context.Background())
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	summary.Flags().StringVar(&markdownPath, "markdown", "", "write the summary into a markdown note at this path")
	return summary
}

func printSummary(w io.Writer, out trackerdto.SummaryOutput) {
	if len(out.Projects) == 0 {
		_, _ = fmt.Fprintln(w, "no sessions recorded")
		return
	}
	for i, p := range out.Projects {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s (Runtime: %dm, Boxes: %d)\n", p.Project, p.Runtime, p.Boxes)
		for _, t := range p.Tasks {
			_, _ = fmt.Fprintf(w, "  %s: %sh\n", t.Task, t.Hours)
		}
		_, _ = fmt.Fprintf(w, "  Total: %sh\n", p.Total)
	}
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the idle monitor, stopping the timer on idle, lock or suspend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				ctx, stop := watchContext(app.Config)
				defer stop()
				return bootstrap.RunWatch(ctx, app)
			})
		},
	}
}

// watchContext leaves shutdown signals to the suspend source unless suspend
// handling is disabled.
func watchContext(cfg config.Config) (context.Context, context.CancelFunc) {
	if cfg.Idle.IgnoreSuspend {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	return context.WithCancel(context.Background())
}

func newIdleCmd(opts *rootOptions) *cobra.Command {
	idle := &cobra.Command{Use: "idle", Short: "Idle monitor diagnostics"}
	idle.AddCommand(&cobra.Command{
		Use:   "probe",
		Short: "Read the idle state once from the configured probe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				out, err := app.IdleCLI.Probe(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "probe=%s state=%s idle=%s\n", out.Probe, out.State, out.Idle.Round(time.Second))
				return nil
			})
		},
	})
	return idle
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the tasktrack terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(opts.dataDir, 0o755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(opts.dataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			app, err := loadApp(opts, logFile, io.Discard)
			if err != nil {
				return err
			}
			return errors.Join(bootstrap.RunTUI(app), app.Close())
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Inspect configuration"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			payload, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# data dir: %s\n%s", cfg.DataDir, payload)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := json.MarshalIndent(config.Schema(), "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	})
	return cfgCmd
}
