// Package events publishes domain lifecycle events over Pub/Sub. The
// worker consumes them to cascade-cancel buddy requests touched by route
// and account deletions.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// Event types carried on the topic.
const (
	TypeRouteDeleted = "route_deleted"
	TypeUserDeleted  = "user_deleted"
)

// Message is the wire format for lifecycle events.
type Message struct {
	EventType  string    `json:"event_type"`
	RouteID    string    `json:"route_id,omitempty"`
	OwnerID    string    `json:"owner_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publishes lifecycle events to a Pub/Sub topic. It implements
// the Events interfaces of the route and user services.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the publisher.
type PublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPublisher creates a new Pub/Sub publisher.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		logger:    cfg.Logger,
	}, nil
}

// Close flushes pending messages and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

// RouteDeleted publishes a route deletion event.
func (p *Publisher) RouteDeleted(ctx context.Context, routeID, ownerID string) error {
	return p.publish(ctx, Message{
		EventType:  TypeRouteDeleted,
		RouteID:    routeID,
		OwnerID:    ownerID,
		OccurredAt: time.Now(),
	})
}

// UserDeleted publishes a user deletion event. Publish failures are logged
// rather than surfaced: account deletion must not fail on a slow broker,
// and the worker tolerates missed events by skipping unknown IDs.
func (p *Publisher) UserDeleted(ctx context.Context, userID string) {
	if err := p.publish(ctx, Message{
		EventType:  TypeUserDeleted,
		UserID:     userID,
		OccurredAt: time.Now(),
	}); err != nil {
		p.logger.Error().Err(err).
			Str("user_id", userID).
			Msg("failed to publish user deletion event")
	}
}

func (p *Publisher) publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing %s event: %w", msg.EventType, err)
	}

	p.logger.Debug().
		Str("event_type", msg.EventType).
		Msg("event published")

	return nil
}
