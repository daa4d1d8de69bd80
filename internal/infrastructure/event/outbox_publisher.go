package event

import (
	"context"

	"github.com/clinic/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher publishes domain events to the outbox within a transaction
type OutboxPublisher struct {
	serializer *EventSerializer
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
	}
}

// PublishWithTx publishes events to the outbox within the provided
// transaction. Events are persisted atomically with the aggregate changes.
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	repo := NewGormOutboxRepository(tx)
	return repo.Save(ctx, entries...)
}

// DurablePublisher implements shared.EventPublisher by writing events to
// the outbox in a dedicated transaction. The processor delivers them to
// the bus later, so a publish survives a crash between the state change
// and the handler run.
type DurablePublisher struct {
	db        *gorm.DB
	publisher *OutboxPublisher
}

// NewDurablePublisher creates a publisher that persists events to the outbox
func NewDurablePublisher(db *gorm.DB, publisher *OutboxPublisher) *DurablePublisher {
	return &DurablePublisher{
		db:        db,
		publisher: publisher,
	}
}

// Publish stores the events as pending outbox entries
func (p *DurablePublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return p.publisher.PublishWithTx(ctx, tx, events...)
	})
}

// Ensure DurablePublisher implements EventPublisher
var _ shared.EventPublisher = (*DurablePublisher)(nil)
