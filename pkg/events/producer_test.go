package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := newMessage(TopicOrder, "user-1", Event{
		Type:       "order_placed",
		UserID:     "user-1",
		OccurredAt: at,
		Data:       map[string]any{"total_cost": "2500.00"},
	})
	require.NoError(t, err)

	assert.Equal(t, TopicOrder, msg.Topic)
	assert.Equal(t, []byte("user-1"), msg.Key)
	assert.Equal(t, at, msg.Time)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order_placed", decoded["type"])
	assert.Equal(t, "2500.00", decoded["data"].(map[string]any)["total_cost"])
}

func TestNewMessage_DefaultsTime(t *testing.T) {
	msg, err := newMessage(TopicCart, "k", Event{Type: "cart_line_added"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), msg.Time, time.Minute)
}

func TestNewMessage_Unencodable(t *testing.T) {
	_, err := newMessage(TopicCart, "k", Event{Type: "x", Data: map[string]any{"bad": make(chan int)}})
	require.Error(t, err)
}
