package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedPublish struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []recordedPublish
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, recordedPublish{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewRabbitMQPublisherWithChannel(ch, "ex.pipeline", zap.NewNop())

	dealID := uuid.New()
	err := p.Publish(context.Background(), TypeDealStageChanged, DealStageChanged{
		DealID:    dealID,
		FromStage: domain.DealStageProposal,
		ToStage:   domain.DealStageNegotiation,
		ActorID:   "user-1",
	})
	require.NoError(t, err)
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "ex.pipeline", got.exchange)
	assert.Equal(t, TypeDealStageChanged, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var envelope struct {
		ID      string           `json:"id"`
		Type    string           `json:"type"`
		Payload DealStageChanged `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(got.msg.Body, &envelope))
	assert.Equal(t, got.msg.MessageId, envelope.ID)
	assert.Equal(t, TypeDealStageChanged, envelope.Type)
	assert.Equal(t, dealID, envelope.Payload.DealID)
	assert.Equal(t, domain.DealStageNegotiation, envelope.Payload.ToStage)
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	p := NewRabbitMQPublisherWithChannel(&fakeChannel{err: errors.New("channel closed")}, "ex.pipeline", zap.NewNop())

	err := p.Publish(context.Background(), TypeLeadConverted, LeadConverted{LeadID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), TypeLeadConverted, nil))
}
