package out

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"tasktrack/internal/modules/idle/domain"
	idleout "tasktrack/internal/modules/idle/port/out"
)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s not installed", domain.ErrProbeUnavailable, name)
	}
	return out, err
}

var hidIdleRe = regexp.MustCompile(`HIDIdleTime"\s*=\s*([0-9]+)`)

// CommandProbe reads input idle time from OS tools: ioreg on macOS and
// xprintidle on X11 desktops. On systemd hosts the session LockedHint is
// consulted for the locked state.
type CommandProbe struct {
	goos      string
	run       CommandRunner
	sessionID string
}

func NewCommandProbe() idleout.StateProbe {
	return NewCommandProbeWith(runtime.GOOS, ExecRunner, os.Getenv("XDG_SESSION_ID"))
}

func NewCommandProbeWith(goos string, run CommandRunner, sessionID string) *CommandProbe {
	return &CommandProbe{goos: goos, run: run, sessionID: sessionID}
}

func (p *CommandProbe) Name() string {
	switch p.goos {
	case "darwin":
		return "ioreg"
	default:
		return "xprintidle"
	}
}

func (p *CommandProbe) Probe(ctx context.Context) (domain.Reading, error) {
	switch p.goos {
	case "darwin":
		return p.probeDarwin(ctx)
	case "linux", "freebsd", "openbsd", "netbsd":
		return p.probeX11(ctx)
	default:
		return domain.Reading{}, fmt.Errorf("%w: no command probe for %s", domain.ErrProbeUnavailable, p.goos)
	}
}

func (p *CommandProbe) probeDarwin(ctx context.Context) (domain.Reading, error) {
	out, err := p.run(ctx, "ioreg", "-c", "IOHIDSystem")
	if err != nil {
		return domain.Reading{}, fmt.Errorf("run ioreg: %w", err)
	}
	match := hidIdleRe.FindSubmatch(out)
	if match == nil {
		return domain.Reading{}, fmt.Errorf("ioreg: HIDIdleTime not found")
	}
	ns, err := strconv.ParseInt(string(match[1]), 10, 64)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("ioreg: parse HIDIdleTime: %w", err)
	}
	return domain.Reading{Idle: time.Duration(ns)}, nil
}

func (p *CommandProbe) probeX11(ctx context.Context) (domain.Reading, error) {
	out, err := p.run(ctx, "xprintidle")
	if err != nil {
		return domain.Reading{}, fmt.Errorf("run xprintidle: %w", err)
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("xprintidle: parse output %q: %w", bytes.TrimSpace(out), err)
	}
	return domain.Reading{Idle: time.Duration(millis) * time.Millisecond, Locked: p.locked(ctx)}, nil
}

// locked is best effort; a missing loginctl or session reads as unlocked.
func (p *CommandProbe) locked(ctx context.Context) bool {
	if p.sessionID == "" {
		return false
	}
	out, err := p.run(ctx, "loginctl", "show-session", p.sessionID, "-p", "LockedHint")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "LockedHint=yes"
}
