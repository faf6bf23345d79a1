package services

import (
	"context"
	"time"

	"routebook/pkg/events"
	"routebook/pkg/logger"
)

const (
	EventRouteSaved   = "route.saved"
	EventRouteDeleted = "route.deleted"

	DefaultRouteTopic = "route.events"
	routeEventSource  = "routebook/routes"

	// MessageRoutesChanged is pushed to the owner's live connections.
	MessageRoutesChanged = "routes_changed"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

type RouteNotifier interface {
	NotifyOwner(ownerID, messageType string, data interface{})
}

type RouteEvent struct {
	Type         string    `json:"type"`
	RouteID      string    `json:"route_id"`
	OwnerID      string    `json:"owner_id"`
	Mode         string    `json:"mode,omitempty"`
	StartAddress string    `json:"start_address,omitempty"`
	EndAddress   string    `json:"end_address,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// routeEvents fans route changes out to the broker and live clients.
// Failures are logged and never returned.
type routeEvents struct {
	publisher EventPublisher
	notifier  RouteNotifier
	topic     string
	logger    *logger.Logger
}

func (e *routeEvents) emit(ctx context.Context, event RouteEvent) {
	log := e.logger.WithOwnerID(event.OwnerID).WithRouteID(event.RouteID).WithField("event", event.Type)

	if e.publisher != nil {
		cloudEvent, err := events.NewCloudEvent(routeEventSource, event.Type, event)
		if err == nil {
			// The change is already committed; a client hanging up must not drop the event.
			err = e.publisher.PublishEvent(context.WithoutCancel(ctx), e.topic, event.OwnerID, cloudEvent)
		}
		if err != nil {
			log.WithError(err).Warn("Failed to publish route event")
		}
	}

	if e.notifier != nil {
		e.notifier.NotifyOwner(event.OwnerID, MessageRoutesChanged, event)
	}
}
