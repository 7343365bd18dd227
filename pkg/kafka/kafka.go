package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

const (
	CirculationTopic   = "circulation-events"
	StatsConsumerGroup = "stats-group"
)

// EventStats is the circulation event published for every borrow, return,
// assignment and request so the stats read model stays current.
type EventStats struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	BookID    int       `json:"bookId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	ActionBorrowed  = "borrowed"
	ActionReturned  = "returned"
	ActionAssigned  = "assigned"
	ActionRequested = "requested"
)

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewAsyncProducer(cfg Config) (sarama.AsyncProducer, error) {
	return sarama.NewAsyncProducer(cfg.Addrs, asyncProducerConfig())
}

// asyncProducerConfig disables the Errors channel: nobody drains it, and an
// undrained channel backs up Input() until publishers block.
func asyncProducerConfig() *sarama.Config {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForLocal
	defaultCfg.Producer.Return.Errors = false

	return defaultCfg
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer-group session loop until the group is closed.
func Consume(log *zap.Logger, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topics ...string) {
	log = log.Named("kafka")
	ctx := context.Background()
	for {
		if err := consumer.Consume(ctx, topics, handler); err != nil {
			if err == sarama.ErrClosedConsumerGroup {
				return
			}
			log.Error("consumer.Consume", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
