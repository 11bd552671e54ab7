package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-plugin"

	idleout "tasktrack/internal/modules/idle/adapter/out"
	"tasktrack/internal/modules/idle/adapter/out/rpc"
	idleport "tasktrack/internal/modules/idle/port/out"
)

const version = "1.0.0"

// server answers from the host's OS tools unless IDLEPROBE_FIXED_IDLE_SECONDS
// or IDLEPROBE_FIXED_STATE pins the reading.
type server struct {
	probe idleport.StateProbe
}

func (s *server) GetMetadata(_ context.Context, _ *rpc.Empty) (*rpc.Metadata, error) {
	return &rpc.Metadata{Name: "idleprobe", Version: version}, nil
}

func (s *server) GetState(ctx context.Context, _ *rpc.Empty) (*rpc.StateResponse, error) {
	fixedState := os.Getenv("IDLEPROBE_FIXED_STATE")
	if raw := os.Getenv("IDLEPROBE_FIXED_IDLE_SECONDS"); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse IDLEPROBE_FIXED_IDLE_SECONDS: %w", err)
		}
		return &rpc.StateResponse{State: fixedState, IdleSeconds: seconds}, nil
	}
	if fixedState != "" {
		return &rpc.StateResponse{State: fixedState}, nil
	}
	reading, err := s.probe.Probe(ctx)
	if err != nil {
		return nil, err
	}
	response := &rpc.StateResponse{IdleSeconds: reading.Idle.Seconds()}
	if reading.Locked {
		response.State = "locked"
	}
	return response, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(&server{probe: idleout.NewCommandProbe()}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
