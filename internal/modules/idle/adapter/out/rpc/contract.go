package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "idleprobe"
	serviceName       = "tasktrack.idle.v1.IdleProbe"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodGetState    = "/" + serviceName + "/GetState"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TASKTRACK_IDLE_PROBE",
	MagicCookieValue: "tasktrack",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// StateResponse carries one idle sample. State is optional; when set to
// "locked" the host treats the session as locked regardless of IdleSeconds.
type StateResponse struct {
	State       string  `json:"state"`
	IdleSeconds float64 `json:"idle_seconds"`
}

type IdleProbeServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	GetState(ctx context.Context, in *Empty) (*StateResponse, error)
}

type IdleProbeClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	GetState(ctx context.Context) (*StateResponse, error)
}

type idleProbeClient struct {
	conn *grpc.ClientConn
}

func NewIdleProbeClient(conn *grpc.ClientConn) IdleProbeClient {
	return &idleProbeClient{conn: conn}
}

func (c *idleProbeClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *idleProbeClient) GetState(ctx context.Context) (*StateResponse, error) {
	out := &StateResponse{}
	if err := c.conn.Invoke(ctx, methodGetState, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func unaryEmpty(fullMethod string, call func(context.Context, *Empty) (any, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := &Empty{}
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			empty, ok := req.(*Empty)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, empty)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterIdleProbeServer(server grpc.ServiceRegistrar, impl IdleProbeServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*IdleProbeServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: unaryEmpty(methodGetMetadata, func(ctx context.Context, in *Empty) (any, error) {
					return impl.GetMetadata(ctx, in)
				}),
			},
			{
				MethodName: "GetState",
				Handler: unaryEmpty(methodGetState, func(ctx context.Context, in *Empty) (any, error) {
					return impl.GetState(ctx, in)
				}),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "idle-probe-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl IdleProbeServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterIdleProbeServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewIdleProbeClient(conn), nil
}

func PluginMap(impl IdleProbeServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
