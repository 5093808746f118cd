package handlerwrapper

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type pingPayload struct {
	Name string `json:"name"`
}

type pongPayload struct {
	Greeting string `json:"greeting"`
}

func newInbound(t *testing.T, body string) *message.Message {
	t.Helper()
	msg := message.NewMessage(watermill.NewUUID(), []byte(body))
	middleware.SetCorrelationID("corr-1", msg)
	msg.Metadata.Set(utils.MetadataCaller, "user-7")
	msg.Metadata.Set(utils.MetadataReplyTo, "reply.here")
	return msg
}

func TestWrapTransformingTyped(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	helper := utils.NewHelper()

	tests := []struct {
		name        string
		body        string
		handler     func(context.Context, *pingPayload) ([]Result, error)
		wantErr     bool
		wantResults int
	}{
		{
			name: "produces result with correlation id",
			body: `{"name":"ada"}`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return []Result{{
					Topic:    "pong.v1",
					Payload:  &pongPayload{Greeting: "hi " + p.Name},
					Metadata: map[string]string{"extra": "x"},
				}}, nil
			},
			wantResults: 1,
		},
		{
			name: "handler error is returned",
			body: `{"name":"ada"}`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return nil, errors.New("boom")
			},
			wantErr: true,
		},
		{
			name: "undecodable payload is dropped",
			body: `not json`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				t.Error("handler should not run for an undecodable payload")
				return nil, nil
			},
		},
		{
			name: "no results",
			body: `{"name":"ada"}`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return nil, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := WrapTransformingTyped("test.ping", slog.Default(), tracer, helper, nil, tt.handler)
			out, err := fn(newInbound(t, tt.body))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, out, tt.wantResults)

			if tt.wantResults > 0 {
				assert.Equal(t, "pong.v1", out[0].Metadata.Get(eventbus.TopicMetadataKey))
				assert.Equal(t, "corr-1", middleware.MessageCorrelationID(out[0]))
				assert.Equal(t, "user-7", out[0].Metadata.Get(utils.MetadataCaller))
				assert.Equal(t, "x", out[0].Metadata.Get("extra"))
				assert.JSONEq(t, `{"greeting":"hi ada"}`, string(out[0].Payload))
			}
		})
	}
}

func TestWrapTransformingTyped_PopulatesContext(t *testing.T) {
	var gotCorrelation, gotCaller, gotReply string
	fn := WrapTransformingTyped("test.ctx", slog.Default(), nil, utils.NewHelper(), nil,
		func(ctx context.Context, p *pingPayload) ([]Result, error) {
			gotCorrelation = attr.CorrelationID(ctx)
			gotCaller = CallerID(ctx)
			gotReply, _ = ctx.Value(CtxKeyReplyTo).(string)
			return nil, nil
		})

	_, err := fn(newInbound(t, `{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "corr-1", gotCorrelation)
	assert.Equal(t, "user-7", gotCaller)
	assert.Equal(t, "reply.here", gotReply)
}

func TestWrapTransformingTyped_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewOperationMetrics(reg, "wrapper_test")

	ok := WrapTransformingTyped("test.ok", slog.Default(), nil, utils.NewHelper(), metrics,
		func(ctx context.Context, p *pingPayload) ([]Result, error) { return nil, nil })
	fail := WrapTransformingTyped("test.fail", slog.Default(), nil, utils.NewHelper(), metrics,
		func(ctx context.Context, p *pingPayload) ([]Result, error) { return nil, errors.New("nope") })

	_, err := ok(newInbound(t, `{}`))
	require.NoError(t, err)
	_, err = fail(newInbound(t, `{}`))
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg,
		"scorekeeper_wrapper_test_operation_success_total",
		"scorekeeper_wrapper_test_operation_failures_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCaller(t *testing.T) {
	type userID string

	tests := []struct {
		name        string
		metadata    string
		fromPayload userID
		want        userID
	}{
		{name: "metadata wins over payload", metadata: "bob", fromPayload: "mallory", want: "bob"},
		{name: "metadata only", metadata: "bob", want: "bob"},
		{name: "payload fallback", fromPayload: "alice", want: "alice"},
		{name: "neither", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.metadata != "" {
				ctx = context.WithValue(ctx, CtxKeyCallerID, tt.metadata)
			}
			assert.Equal(t, tt.want, Caller(ctx, tt.fromPayload))
		})
	}
}
