package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"tasktrack/internal/bootstrap"
)

const serviceName = "tasktrack-watch"

// watchProgram runs the idle watcher under the OS service manager.
type watchProgram struct {
	opts *rootOptions

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *watchProgram) Start(s service.Service) error {
	logger, err := s.Logger(nil)
	if err != nil {
		logger = service.ConsoleLogger
	}
	app, err := loadApp(p.opts, newServiceLogWriter(logger), nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.mu.Lock()
	p.cancel, p.done = cancel, done
	p.mu.Unlock()

	// Start must not block.
	go func() {
		defer close(done)
		if err := bootstrap.RunWatch(ctx, app); err != nil {
			_ = logger.Errorf("idle watcher exited: %v", err)
		}
		if err := app.Close(); err != nil {
			_ = logger.Errorf("close app: %v", err)
		}
	}()
	return nil
}

func (p *watchProgram) Stop(service.Service) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// serviceLogWriter forwards logrus text output to the service logger.
type serviceLogWriter struct {
	logger service.Logger
}

func newServiceLogWriter(logger service.Logger) serviceLogWriter {
	return serviceLogWriter{logger: logger}
}

func (w serviceLogWriter) Write(p []byte) (int, error) {
	if err := w.logger.Info(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func newService(opts *rootOptions) (service.Service, error) {
	dataDir, err := filepath.Abs(opts.dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	args := []string{"service", "run", "--data-dir", dataDir}
	if opts.configPath != "" {
		configPath, err := filepath.Abs(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		args = append(args, "--config", configPath)
	}
	svcConfig := &service.Config{
		Name:        serviceName,
		DisplayName: "tasktrack idle watcher",
		Description: "Stops the running tasktrack timer when the session goes idle, locks or suspends.",
		Arguments:   args,
		Option:      service.KeyValue{"UserService": true},
	}
	s, err := service.New(&watchProgram{opts: opts}, svcConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

func newServiceCmd(opts *rootOptions) *cobra.Command {
	svc := &cobra.Command{
		Use:   "service",
		Short: "Manage the idle watcher as a user service",
		Long: `Install, uninstall, start, stop, or check the status of the idle watcher.

On Linux this manages a systemd user unit, on macOS a launchd agent and on
Windows a Windows Service.`,
	}

	action := func(use, short string, run func(cmd *cobra.Command, s service.Service) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := newService(opts)
				if err != nil {
					return err
				}
				return run(cmd, s)
			},
		}
	}

	svc.AddCommand(action("install", "Install the watcher service", func(cmd *cobra.Command, s service.Service) error {
		if err := s.Install(); err != nil {
			return fmt.Errorf("failed to install service: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "service %s installed; start it with: tasktrack service start\n", serviceName)
		return nil
	}))
	svc.AddCommand(action("uninstall", "Remove the watcher service", func(cmd *cobra.Command, s service.Service) error {
		_ = s.Stop()
		if err := s.Uninstall(); err != nil {
			return fmt.Errorf("failed to uninstall service: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "service %s uninstalled\n", serviceName)
		return nil
	}))
	svc.AddCommand(action("start", "Start the watcher service", func(cmd *cobra.Command, s service.Service) error {
		if err := s.Start(); err != nil {
			return fmt.Errorf("failed to start service: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "service %s started\n", serviceName)
		return nil
	}))
	svc.AddCommand(action("stop", "Stop the watcher service", func(cmd *cobra.Command, s service.Service) error {
		if err := s.Stop(); err != nil {
			return fmt.Errorf("failed to stop service: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "service %s stopped\n", serviceName)
		return nil
	}))
	svc.AddCommand(action("status", "Show the watcher service status", func(cmd *cobra.Command, s service.Service) error {
		status, err := s.Status()
		if err != nil {
			return fmt.Errorf("failed to get service status: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "service %s: %s\n", serviceName, statusLabel(status))
		return nil
	}))

	run := action("run", "Run the watcher under the service manager", func(_ *cobra.Command, s service.Service) error {
		return s.Run()
	})
	run.Hidden = true
	svc.AddCommand(run)
	return svc
}

func statusLabel(status service.Status) string {
	switch status {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
