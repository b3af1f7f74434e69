package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	var p Publisher = Nop{}

	assert.NoError(t, p.Publish(context.Background(), RoutingInitiativeStageChanged, StageChanged{InitiativeID: 1}))
	assert.NoError(t, p.Close())
}

func TestNewAMQPPublisher_BadURL(t *testing.T) {
	_, err := NewAMQPPublisher("not-a-url", "innovation.events")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
}

func TestAMQPPublisher_ClosedConnection(t *testing.T) {
	p := &AMQPPublisher{exchange: "innovation.events"}

	err := p.Publish(context.Background(), RoutingInitiativeCreated, InitiativeCreated{InitiativeID: 1})

	assert.ErrorContains(t, err, "connection closed")
	assert.NoError(t, p.Close())
}

func TestAMQPPublisher_UnencodablePayload(t *testing.T) {
	p := &AMQPPublisher{exchange: "innovation.events"}

	err := p.Publish(context.Background(), RoutingInitiativeCreated, make(chan int))

	assert.ErrorContains(t, err, "marshal event")
}
