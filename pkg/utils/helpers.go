// Package utils holds message helpers shared by every module's handlers.
package utils

import (
	"encoding/json"
	"fmt"

	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Metadata keys carried across message hops.
const (
	MetadataReplyTo = "reply_to"
	MetadataCaller  = "caller_id"
)

// Helpers builds and decodes watermill messages.
type Helpers interface {
	CreateNewMessage(payload any, topic string) (*message.Message, error)
	CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error)
	UnmarshalPayload(msg *message.Message, out any) error
}

// DefaultHelper is the JSON implementation of Helpers.
type DefaultHelper struct{}

// NewHelper returns a DefaultHelper.
func NewHelper() Helpers {
	return &DefaultHelper{}
}

// CreateNewMessage marshals payload and stamps a fresh correlation id.
func (h *DefaultHelper) CreateNewMessage(payload any, topic string) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(eventbus.TopicMetadataKey, topic)
	middleware.SetCorrelationID(watermill.NewUUID(), msg)
	return msg, nil
}

// CreateResultMessage marshals payload and copies the correlation id and
// caller metadata from original.
func (h *DefaultHelper) CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(eventbus.TopicMetadataKey, topic)

	if original != nil {
		correlationID := middleware.MessageCorrelationID(original)
		if correlationID == "" {
			correlationID = watermill.NewUUID()
		}
		middleware.SetCorrelationID(correlationID, msg)
		if caller := original.Metadata.Get(MetadataCaller); caller != "" {
			msg.Metadata.Set(MetadataCaller, caller)
		}
	} else {
		middleware.SetCorrelationID(watermill.NewUUID(), msg)
	}

	return msg, nil
}

// UnmarshalPayload decodes the message body into out.
func (h *DefaultHelper) UnmarshalPayload(msg *message.Message, out any) error {
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal message %s: %w", msg.UUID, err)
	}
	return nil
}
