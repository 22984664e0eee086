package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// publish sends an event after the write it describes has committed. A
// broker failure is logged and never fails the operation.
func publish(ctx context.Context, pub events.Publisher, topic, key string, ev events.Event) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := pub.Publish(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_error", "topic", topic, "type", ev.Type, "error", err)
	}
}
