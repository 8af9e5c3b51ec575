// Package events publishes pipeline domain events to interested consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
)

// Event types, also used as routing keys
const (
	TypeLeadConverted    = "lead.converted"
	TypeDealStageChanged = "deal.stage_changed"
)

// Publisher delivers a single event
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// Envelope is the wire representation of every event
type Envelope struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewEnvelope wraps a payload with a fresh event id
func NewEnvelope(eventType string, payload interface{}) Envelope {
	return Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// LeadConverted is published after a lead has been turned into account, contact, deal and sales order
type LeadConverted struct {
	LeadID       uuid.UUID `json:"leadId"`
	AccountID    uuid.UUID `json:"accountId"`
	ContactID    uuid.UUID `json:"contactId"`
	DealID       uuid.UUID `json:"dealId"`
	SalesOrderID uuid.UUID `json:"salesOrderId"`
	Amount       float64   `json:"amount"`
	LeadDeleted  bool      `json:"leadDeleted"`
	ActorID      string    `json:"actorId"`
}

// DealStageChanged is published after a stage change has been persisted
type DealStageChanged struct {
	DealID    uuid.UUID        `json:"dealId"`
	FromStage domain.DealStage `json:"fromStage"`
	ToStage   domain.DealStage `json:"toStage"`
	ActorID   string           `json:"actorId"`
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
