// Package server hosts the adjudicator gRPC service, the counterpart
// of the adjudicator.GRPC client. Running the oracle out of process
// lets many simulator runs share one backend (and one API budget).
// The service is registered by hand with a ServiceDesc and exchanges
// google.protobuf.Struct payloads, so neither side needs generated
// stubs.
package server

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spellstack/gauntlet/internal/adjudicator"
)

const fullMethod = "/gauntlet.adjudicator.v1.Adjudicator/Adjudicate"

// adjudicatorService is the handler contract the ServiceDesc binds to.
type adjudicatorService interface {
	Adjudicate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "gauntlet.adjudicator.v1.Adjudicator",
	HandlerType: (*adjudicatorService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Adjudicate",
			Handler:    adjudicateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gauntlet/adjudicator/v1/adjudicator.proto",
}

func adjudicateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := &structpb.Struct{}
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(adjudicatorService).Adjudicate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(adjudicatorService).Adjudicate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// AdjudicatorServer serves one backend adjudicator over gRPC.
type AdjudicatorServer struct {
	backend adjudicator.Adjudicator
	logger  *zap.Logger
	grpc    *grpc.Server
}

// NewAdjudicatorServer wraps the backend in a gRPC server. The backend
// is typically the OpenAI adjudicator; Null makes a wiring-test echo.
func NewAdjudicatorServer(backend adjudicator.Adjudicator, logger *zap.Logger) *AdjudicatorServer {
	s := &AdjudicatorServer{
		backend: backend,
		logger:  logger,
		grpc: grpc.NewServer(
			grpc.ChainUnaryInterceptor(loggingInterceptor(logger)),
		),
	}
	s.grpc.RegisterService(&serviceDesc, s)
	return s
}

// Serve accepts connections on the listener until GracefulStop.
func (s *AdjudicatorServer) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// ListenAndServe listens on addr and blocks serving.
func (s *AdjudicatorServer) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if s.logger != nil {
		s.logger.Info("adjudicator service listening", zap.String("addr", lis.Addr().String()))
	}
	return s.Serve(lis)
}

// GracefulStop drains in-flight calls and stops the server.
func (s *AdjudicatorServer) GracefulStop() {
	s.grpc.GracefulStop()
}

// Adjudicate implements adjudicatorService: decode the struct payload,
// consult the backend, encode its verdict.
func (s *AdjudicatorServer) Adjudicate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := decodeRequest(in.AsMap())
	resp, err := s.backend.Adjudicate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("adjudicate: %w", err)
	}
	out, err := encodeResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("encode verdict: %w", err)
	}
	return out, nil
}

func decodeRequest(m map[string]any) adjudicator.Request {
	req := adjudicator.Request{}
	if state, ok := m["state"].(string); ok {
		req.State = state
	}
	if action, ok := m["action"].(string); ok {
		req.Action = action
	}
	return req
}

func encodeResponse(resp adjudicator.Response) (*structpb.Struct, error) {
	changes := make([]any, 0, len(resp.Changes))
	for _, ch := range resp.Changes {
		changes = append(changes, map[string]any{
			"target_type":  ch.TargetType,
			"target_id":    ch.TargetID,
			"field":        ch.Field,
			"value":        ch.Value,
			"counter_name": ch.CounterName,
		})
	}
	return structpb.NewStruct(map[string]any{
		"legal":         resp.Legal,
		"resolution":    resp.Resolution,
		"reasoning":     resp.Reasoning,
		"state_changes": changes,
	})
}

// loggingInterceptor logs every call at debug and failures at warn.
func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if logger == nil {
			return resp, err
		}
		if err != nil {
			logger.Warn("rpc failed", zap.String("method", info.FullMethod), zap.Error(err))
		} else {
			logger.Debug("rpc served", zap.String("method", info.FullMethod))
		}
		return resp, err
	}
}
