// Package eventbus provides event publishing for local (in-process) and
// shared (RabbitMQ) deployments.
package eventbus

import (
	"context"
	"encoding/json"

	"github.com/curbspot/curbspot/internal/shared/domain"
)

// Publisher sends serialized events with a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishDomainEvent marshals a domain event and publishes it under the
// event's routing key.
func PublishDomainEvent(ctx context.Context, p Publisher, event domain.DomainEvent) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, event.RoutingKey(), payload)
}
