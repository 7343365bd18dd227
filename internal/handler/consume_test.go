package handler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/handler"
	"github.com/shaigo/knowledgehub/pkg/kafka"
)

// A consumer-group handler lives across rebalances: sarama calls Setup and
// Cleanup once per session on the same instance.
func TestConsumer_SurvivesRebalance(t *testing.T) {
	t.Parallel()
	c := handler.NewConsumer(func(context.Context, kafka.EventStats) error {
		return nil
	}, zap.NewNop())

	for i := 0; i < 3; i++ {
		require.NotPanics(t, func() {
			require.NoError(t, c.Setup(nil))
			require.NoError(t, c.Cleanup(nil))
		})
	}
}
