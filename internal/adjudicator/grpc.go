package adjudicator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// grpcMethod is the full method name of the remote adjudicator. Both
// sides exchange google.protobuf.Struct payloads, so neither needs
// generated stubs to speak the protocol.
const grpcMethod = "/gauntlet.adjudicator.v1.Adjudicator/Adjudicate"

// GRPC adjudicates over a unary call to a remote service. Responses
// outside the change vocabulary are passed through untouched; the
// engine validates and skips them.
type GRPC struct {
	conn   *grpc.ClientConn
	logger *zap.Logger
}

// NewGRPC connects to the adjudicator service at addr. The connection
// is lazy; the first Adjudicate call establishes it.
func NewGRPC(addr string, logger *zap.Logger) (*GRPC, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect adjudicator: %w", err)
	}
	return &GRPC{conn: conn, logger: logger}, nil
}

// Close tears down the client connection.
func (a *GRPC) Close() error {
	return a.conn.Close()
}

// Adjudicate implements Adjudicator.
func (a *GRPC) Adjudicate(ctx context.Context, req Request) (Response, error) {
	in, err := structpb.NewStruct(map[string]any{
		"state":  req.State,
		"action": req.Action,
	})
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	out := &structpb.Struct{}
	if err := a.conn.Invoke(ctx, grpcMethod, in, out); err != nil {
		return Response{}, fmt.Errorf("adjudicator call: %w", err)
	}
	resp := decodeResponse(out.AsMap())
	if a.logger != nil {
		a.logger.Debug("adjudicator verdict",
			zap.Bool("legal", resp.Legal),
			zap.Int("changes", len(resp.Changes)),
		)
	}
	return resp, nil
}

// decodeResponse maps the loosely typed struct payload onto a
// Response. Missing or mistyped fields decode to zero values; a
// malformed change list decodes to however many entries were usable.
func decodeResponse(m map[string]any) Response {
	resp := Response{
		Legal:      asBool(m["legal"]),
		Resolution: asString(m["resolution"]),
		Reasoning:  asString(m["reasoning"]),
	}
	rawChanges, ok := m["state_changes"].([]any)
	if !ok {
		return resp
	}
	for _, raw := range rawChanges {
		cm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		resp.Changes = append(resp.Changes, StateChange{
			TargetType:  asString(cm["target_type"]),
			TargetID:    asString(cm["target_id"]),
			Field:       asString(cm["field"]),
			Value:       asString(cm["value"]),
			CounterName: asString(cm["counter_name"]),
		})
	}
	return resp
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// Struct values carry numbers as float64; numeric fields such
		// as a life delta arrive that way from permissive services.
		return fmt.Sprintf("%d", int(s))
	default:
		return ""
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
