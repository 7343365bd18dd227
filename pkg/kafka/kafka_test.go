package kafka

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Nothing drains the async producer's Errors channel, so it has to stay off
// or Input() sends would eventually block behind undelivered errors.
func TestAsyncProducerConfig(t *testing.T) {
	t.Parallel()
	cfg := asyncProducerConfig()

	require.False(t, cfg.Producer.Return.Errors)
	require.Equal(t, sarama.WaitForLocal, cfg.Producer.RequiredAcks)
	require.NoError(t, cfg.Validate())
}

type closedConsumerGroup struct {
	calls int
}

func (g *closedConsumerGroup) Consume(context.Context, []string, sarama.ConsumerGroupHandler) error {
	g.calls++
	return sarama.ErrClosedConsumerGroup
}

func (g *closedConsumerGroup) Errors() <-chan error      { return nil }
func (g *closedConsumerGroup) Close() error              { return nil }
func (g *closedConsumerGroup) Pause(map[string][]int32)  {}
func (g *closedConsumerGroup) Resume(map[string][]int32) {}
func (g *closedConsumerGroup) PauseAll()                 {}
func (g *closedConsumerGroup) ResumeAll()                {}

func TestConsume_ReturnsOnClosedGroup(t *testing.T) {
	t.Parallel()
	group := &closedConsumerGroup{}

	Consume(zap.NewNop(), group, nil, CirculationTopic)

	require.Equal(t, 1, group.calls)
}
