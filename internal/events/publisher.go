// Package events publishes return lifecycle events to NATS.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event subjects
const (
	SubjectReturnCreated       = "return.created"
	SubjectReturnStatusChanged = "return.status.changed"
	SubjectReturnDeleted       = "return.deleted"
)

// ReturnCreatedEvent announces a newly created return request.
type ReturnCreatedEvent struct {
	ReturnID    string    `json:"return_id"`
	OrderNumber string    `json:"order_number"`
	TotalRefund float64   `json:"total_refund"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReturnStatusChangedEvent announces a status transition.
type ReturnStatusChangedEvent struct {
	ReturnID  string    `json:"return_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}

// ReturnDeletedEvent announces an admin deletion.
type ReturnDeletedEvent struct {
	ReturnID  string    `json:"return_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes return events to NATS. A nil connection disables
// publishing, so the service runs without a broker in development.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(nc *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{nc: nc, logger: logger}
}

// PublishReturnCreated publishes a return created event.
func (p *Publisher) PublishReturnCreated(event *ReturnCreatedEvent) {
	event.Timestamp = time.Now().UTC()
	p.publish(SubjectReturnCreated, event)
}

// PublishReturnStatusChanged publishes a status transition event.
func (p *Publisher) PublishReturnStatusChanged(event *ReturnStatusChangedEvent) {
	event.Timestamp = time.Now().UTC()
	p.publish(SubjectReturnStatusChanged, event)
}

// PublishReturnDeleted publishes a return deleted event.
func (p *Publisher) PublishReturnDeleted(event *ReturnDeletedEvent) {
	event.Timestamp = time.Now().UTC()
	p.publish(SubjectReturnDeleted, event)
}

// publish is best-effort: a broker failure must never fail the request that
// triggered the event.
func (p *Publisher) publish(subject string, event any) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
		return
	}

	p.logger.Debug("published event", zap.String("subject", subject))
}
