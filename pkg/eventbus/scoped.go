package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishScoped publishes msg on "{baseTopic}.{scopeID}" so consumers can
// subscribe to a single game or to every game with a wildcard.
func PublishScoped(bus message.Publisher, baseTopic, scopeID string, msg *message.Message) error {
	if scopeID == "" {
		return fmt.Errorf("scopeID cannot be empty for scoped publish")
	}
	return bus.Publish(ScopedTopic(baseTopic, scopeID), msg)
}

// ScopedTopic formats a topic with a scope suffix.
func ScopedTopic(baseTopic, scopeID string) string {
	return fmt.Sprintf("%s.%s", baseTopic, scopeID)
}
