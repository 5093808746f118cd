// Package handlerwrapper adapts typed handler functions to watermill.
package handlerwrapper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type ctxKey string

// Context keys populated from inbound message metadata.
const (
	CtxKeyReplyTo  ctxKey = "reply_to"
	CtxKeyCallerID ctxKey = "caller_id"
	CtxKeyTopic    ctxKey = "topic"
)

// Result is one outbound message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the inbound payload into T, invokes handler,
// and turns its results into outbound messages that keep the inbound
// correlation id. A nil metrics records nothing.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	helper utils.Helpers,
	metrics observability.OperationMetrics,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("handlerwrapper")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := contextFromMessage(msg)
		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", attr.CorrelationID(ctx)),
		))
		defer span.End()

		start := time.Now()
		if metrics != nil {
			metrics.RecordOperationAttempt(ctx, handlerName, "handler")
			defer func() { metrics.RecordOperationDuration(ctx, handlerName, "handler", time.Since(start)) }()
		}

		payload := new(T)
		if err := helper.UnmarshalPayload(msg, payload); err != nil {
			// A payload that cannot be decoded will never succeed; ack it.
			logger.ErrorContext(ctx, "Dropping undecodable message",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "unmarshal failed")
			if metrics != nil {
				metrics.RecordOperationFailure(ctx, handlerName, "handler")
			}
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if metrics != nil {
				metrics.RecordOperationFailure(ctx, handlerName, "handler")
			}
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			outMsg, err := helper.CreateResultMessage(msg, r.Payload, r.Topic)
			if err != nil {
				span.RecordError(err)
				if metrics != nil {
					metrics.RecordOperationFailure(ctx, handlerName, "handler")
				}
				return nil, fmt.Errorf("%s: failed to create result message for %s: %w", handlerName, r.Topic, err)
			}
			for k, v := range r.Metadata {
				outMsg.Metadata.Set(k, v)
			}
			out = append(out, outMsg)
		}

		if metrics != nil {
			metrics.RecordOperationSuccess(ctx, handlerName, "handler")
		}
		logger.DebugContext(ctx, "Handler completed",
			attr.ExtractCorrelationID(ctx),
			attr.String("handler", handlerName),
			attr.Int("results", len(out)),
		)
		return out, nil
	}
}

func contextFromMessage(msg *message.Message) context.Context {
	ctx := msg.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = attr.WithCorrelationID(ctx, middleware.MessageCorrelationID(msg))
	if rt := msg.Metadata.Get(utils.MetadataReplyTo); rt != "" {
		ctx = context.WithValue(ctx, CtxKeyReplyTo, rt)
	}
	if caller := msg.Metadata.Get(utils.MetadataCaller); caller != "" {
		ctx = context.WithValue(ctx, CtxKeyCallerID, caller)
	}
	return ctx
}

// Caller resolves the acting user of an inbound message. The caller_id
// metadata stamped by the publishing service wins; the caller named in the
// payload is used only for messages that carry no caller metadata. Either
// way the caller is only as trustworthy as the publisher, which must hold
// the service's NATS credentials.
func Caller[T ~string](ctx context.Context, fromPayload T) T {
	if id := CallerID(ctx); id != "" {
		return T(id)
	}
	return fromPayload
}

// CallerID returns the caller id carried by the inbound message, if any.
func CallerID(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyCallerID).(string); ok {
		return v
	}
	return ""
}
