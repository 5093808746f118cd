package utils

import (
	"testing"

	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ID    string `json:"id"`
	Score uint64 `json:"score"`
}

func TestCreateNewMessage(t *testing.T) {
	h := NewHelper()

	msg, err := h.CreateNewMessage(&samplePayload{ID: "p1", Score: 42}, "score.submitted.v1")
	require.NoError(t, err)

	assert.Equal(t, "score.submitted.v1", msg.Metadata.Get(eventbus.TopicMetadataKey))
	assert.NotEmpty(t, middleware.MessageCorrelationID(msg))
	assert.JSONEq(t, `{"id":"p1","score":42}`, string(msg.Payload))
}

func TestCreateResultMessage(t *testing.T) {
	h := NewHelper()

	t.Run("inherits correlation and caller", func(t *testing.T) {
		orig := message.NewMessage(watermill.NewUUID(), nil)
		middleware.SetCorrelationID("abc", orig)
		orig.Metadata.Set(MetadataCaller, "user-1")

		msg, err := h.CreateResultMessage(orig, &samplePayload{ID: "p"}, "out.v1")
		require.NoError(t, err)
		assert.Equal(t, "abc", middleware.MessageCorrelationID(msg))
		assert.Equal(t, "user-1", msg.Metadata.Get(MetadataCaller))
		assert.Equal(t, "out.v1", msg.Metadata.Get(eventbus.TopicMetadataKey))
	})

	t.Run("nil original gets new correlation", func(t *testing.T) {
		msg, err := h.CreateResultMessage(nil, &samplePayload{}, "out.v1")
		require.NoError(t, err)
		assert.NotEmpty(t, middleware.MessageCorrelationID(msg))
	})

	t.Run("unmarshalable payload", func(t *testing.T) {
		_, err := h.CreateResultMessage(nil, make(chan int), "out.v1")
		assert.Error(t, err)
	})
}

func TestUnmarshalPayload(t *testing.T) {
	h := NewHelper()

	var out samplePayload
	require.NoError(t, h.UnmarshalPayload(message.NewMessage("1", []byte(`{"id":"x","score":7}`)), &out))
	assert.Equal(t, samplePayload{ID: "x", Score: 7}, out)

	assert.Error(t, h.UnmarshalPayload(message.NewMessage("2", []byte(`{`)), &out))
}
