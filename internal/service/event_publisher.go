package service

import (
	"context"
	"time"

	"english-tutor-be/internal/pkg/logger"
	"english-tutor-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TutorEventsTopic is the in-process topic the archive consumes.
const TutorEventsTopic = "tutor.events"

// RemotePublisher forwards events outside the process (NATS JetStream).
type RemotePublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IEventPublisher fans an event out to the local bus and the remote broker.
// Publishing never fails the caller; errors are logged.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type eventPublisher struct {
	local  message.Publisher
	remote RemotePublisher
	logger logger.ILogger
}

// NewEventPublisher accepts nil for either side.
func NewEventPublisher(local message.Publisher, remote RemotePublisher, log logger.ILogger) IEventPublisher {
	return &eventPublisher{local: local, remote: remote, logger: log}
}

func (p *eventPublisher) Publish(ctx context.Context, event events.Event) {
	if p.local != nil {
		p.publishLocal(event)
	}
	if p.remote != nil {
		p.publishRemote(ctx, event)
	}
}

func (p *eventPublisher) publishLocal(event events.Event) {
	payload, err := events.Marshal(event)
	if err != nil {
		p.logger.Error("EventPublisher", "Failed to encode event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.local.Publish(TutorEventsTopic, msg); err != nil {
		p.logger.Warn("EventPublisher", "Failed to publish locally", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func (p *eventPublisher) publishRemote(ctx context.Context, event events.Event) {
	// Detached from the request so a finished HTTP call does not cancel delivery.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := p.remote.Publish(rctx, event); err != nil {
		p.logger.Warn("EventPublisher", "Failed to publish to NATS", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

type nopEventPublisher struct{}

func (nopEventPublisher) Publish(context.Context, events.Event) {}

// NopEventPublisher drops every event.
func NopEventPublisher() IEventPublisher { return nopEventPublisher{} }
