package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type memoryEventBus struct {
	pubsub *gochannel.GoChannel
}

// NewInMemoryEventBus returns an EventBus backed by watermill's go channel
// pub/sub. It serves single-process runs and tests.
func NewInMemoryEventBus(logger *slog.Logger) EventBus {
	return &memoryEventBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, watermill.NewSlogLogger(logger)),
	}
}

func (m *memoryEventBus) Publish(topic string, msgs ...*message.Message) error {
	for topic, batch := range groupByTopic(topic, msgs) {
		if topic == "" {
			return fmt.Errorf("message has no topic")
		}
		if err := m.pubsub.Publish(topic, batch...); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return m.pubsub.Subscribe(ctx, topic)
}

func (m *memoryEventBus) CreateStream(context.Context, string) error {
	return nil
}

func (m *memoryEventBus) Close() error {
	return m.pubsub.Close()
}
