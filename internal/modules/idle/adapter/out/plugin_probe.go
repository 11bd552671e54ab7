package out

import (
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"tasktrack/internal/modules/idle/adapter/out/rpc"
	"tasktrack/internal/modules/idle/domain"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginProbe reads idle state from an out-of-process probe. The plugin
// process is started on first use and reused until it fails or Close.
type PluginProbe struct {
	binary string
	env    []string
	name   string

	mu     sync.Mutex
	client *plugin.Client
	rpc    rpc.IdleProbeClient
}

// NewPluginProbe runs binary with the current environment plus env.
func NewPluginProbe(binary string, env ...string) *PluginProbe {
	return &PluginProbe{binary: binary, env: env}
}

func (p *PluginProbe) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.name != "" {
		return "plugin:" + p.name
	}
	return "plugin"
}

func (p *PluginProbe) Probe(ctx context.Context) (domain.Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	client, err := p.connectLocked(ctx)
	if err != nil {
		return domain.Reading{}, err
	}

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.GetState(callCtx)
	if err != nil {
		p.closeLocked()
		return domain.Reading{}, fmt.Errorf("get idle state: %w", err)
	}
	if response.IdleSeconds < 0 || math.IsNaN(response.IdleSeconds) {
		return domain.Reading{}, fmt.Errorf("plugin reported invalid idle seconds %v", response.IdleSeconds)
	}
	reading := domain.Reading{Idle: time.Duration(response.IdleSeconds * float64(time.Second))}
	if state := strings.TrimSpace(response.State); state != "" {
		parsed, err := domain.ParseState(state)
		if err != nil {
			return domain.Reading{}, err
		}
		reading.Locked = parsed == domain.StateLocked
	}
	return reading, nil
}

func (p *PluginProbe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *PluginProbe) connectLocked(ctx context.Context) (rpc.IdleProbeClient, error) {
	if p.rpc != nil && p.client != nil && !p.client.Exited() {
		return p.rpc, nil
	}
	p.closeLocked()

	cmd := exec.Command(p.binary)
	cmd.Env = append([]string(nil), p.env...)
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              cmd,
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start idle probe plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense idle probe: %w", err)
	}
	typed, ok := raw.(rpc.IdleProbeClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("idle probe rpc client type mismatch")
	}

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := typed.GetMetadata(callCtx)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("get idle probe metadata: %w", err)
	}
	p.client, p.rpc, p.name = client, typed, meta.Name
	return typed, nil
}

func (p *PluginProbe) closeLocked() {
	if p.client != nil {
		p.client.Kill()
	}
	p.client, p.rpc = nil, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
