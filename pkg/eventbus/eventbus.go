// Package eventbus wires watermill publishers and subscribers to NATS JetStream.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TopicMetadataKey names the message metadata entry that routes a message
// published with an empty topic.
const TopicMetadataKey = "topic"

// EventBus publishes and subscribes watermill messages and provisions streams.
type EventBus interface {
	message.Publisher
	message.Subscriber
	CreateStream(ctx context.Context, streamName string) error
}

// Options configure the NATS connection.
type Options struct {
	URL      string
	NKeySeed string
	AppType  string
}

type natsEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	js         jetstream.JetStream
	conn       *nc.Conn
	logger     *slog.Logger
	tracer     trace.Tracer

	streamMu       sync.Mutex
	createdStreams map[string]bool
}

// NewEventBus connects to NATS and returns a JetStream-backed EventBus.
func NewEventBus(ctx context.Context, opts Options, logger *slog.Logger, tracer trace.Tracer) (EventBus, error) {
	natsOpts := []nc.Option{
		nc.Name("scorekeeper-" + opts.AppType),
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
	}
	if opts.NKeySeed != "" {
		authOpt, err := nkeyOption(opts.NKeySeed)
		if err != nil {
			return nil, err
		}
		natsOpts = append(natsOpts, authOpt)
	}

	conn, err := nc.Connect(opts.URL, natsOpts...)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &wmnats.NATSMarshaler{}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         opts.URL,
		NatsOptions: natsOpts,
		Marshaler:   marshaler,
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:          opts.URL,
		NatsOptions:  natsOpts,
		Unmarshaler:  marshaler,
		CloseTimeout: 10 * time.Second,
	}, wmLogger)
	if err != nil {
		publisher.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &natsEventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		conn:           conn,
		logger:         logger,
		tracer:         tracer,
		createdStreams: make(map[string]bool),
	}, nil
}

func nkeyOption(seed string) (nc.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NATS nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive NATS nkey public key: %w", err)
	}
	return nc.Nkey(pub, kp.Sign), nil
}

// Publish sends msgs to topic. With an empty topic each message is routed by
// its "topic" metadata.
func (eb *natsEventBus) Publish(topic string, msgs ...*message.Message) error {
	for topic, batch := range groupByTopic(topic, msgs) {
		_, span := eb.tracer.Start(context.Background(), "EventBus.Publish",
			trace.WithAttributes(attribute.String("topic", topic), attribute.Int("messages", len(batch))))
		err := eb.publisher.Publish(topic, batch...)
		if err != nil {
			span.RecordError(err)
			span.End()
			eb.logger.Error("Failed to publish message", slog.String("topic", topic), slog.Any("error", err))
			return fmt.Errorf("failed to publish to %s: %w", topic, err)
		}
		span.End()
		eb.logger.Debug("Published messages", slog.String("topic", topic), slog.Int("count", len(batch)))
	}
	return nil
}

func (eb *natsEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to topic", slog.String("topic", topic))
	return eb.subscriber.Subscribe(ctx, topic)
}

// CreateStream ensures a JetStream stream named streamName captures every
// subject under "streamName.>".
func (eb *natsEventBus) CreateStream(ctx context.Context, streamName string) error {
	eb.streamMu.Lock()
	defer eb.streamMu.Unlock()

	if eb.createdStreams[streamName] {
		return nil
	}

	_, err := eb.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{streamName + ".>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", streamName, err)
	}

	eb.createdStreams[streamName] = true
	eb.logger.InfoContext(ctx, "Stream ready", slog.String("stream_name", streamName))
	return nil
}

func (eb *natsEventBus) Close() error {
	var firstErr error
	if err := eb.publisher.Close(); err != nil {
		firstErr = err
	}
	if err := eb.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	eb.conn.Close()
	return firstErr
}

func groupByTopic(topic string, msgs []*message.Message) map[string][]*message.Message {
	out := make(map[string][]*message.Message)
	for _, msg := range msgs {
		t := topic
		if t == "" {
			t = msg.Metadata.Get(TopicMetadataKey)
		}
		out[t] = append(out[t], msg)
	}
	return out
}
