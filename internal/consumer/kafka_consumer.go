package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// KafkaConsumer delivers raw sample batches to the ingest handler through a
// consumer group. A handler error leaves the message unmarked so the batch
// is redelivered; ingestion is idempotent, so redelivery is safe.
type KafkaConsumer struct {
	consumer sarama.ConsumerGroup
	broker   string
	topic    string
	groupID  string
	logger   logger.Logger
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

type batchHandler struct {
	handler func(ctx context.Context, batch ports.SampleBatch) error
	logger  logger.Logger
}

func NewKafkaConsumer(cfg config.KafkaConfig, log logger.Logger) (*KafkaConsumer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Version = sarama.V2_8_0_0
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaCfg.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRange()
	saramaCfg.Consumer.MaxProcessingTime = 30 * time.Second
	saramaCfg.Net.DialTimeout = 30 * time.Second
	saramaCfg.Net.ReadTimeout = 30 * time.Second
	saramaCfg.Net.WriteTimeout = 30 * time.Second

	consumer, err := sarama.NewConsumerGroup([]string{cfg.Broker}, cfg.GroupID, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	return &KafkaConsumer{
		consumer: consumer,
		broker:   cfg.Broker,
		topic:    cfg.Topic,
		groupID:  cfg.GroupID,
		logger:   log.WithField("component", "kafka_consumer"),
	}, nil
}

func (k *KafkaConsumer) Consume(ctx context.Context, handler func(ctx context.Context, batch ports.SampleBatch) error) error {
	k.logger.Infof("Starting Kafka consumer for topic: %s, group: %s", k.topic, k.groupID)

	ctx, cancel := context.WithCancel(ctx)
	k.cancel = cancel

	groupHandler := &batchHandler{
		handler: handler,
		logger:  k.logger.WithField("handler", "kafka"),
	}

	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		for {
			select {
			case <-ctx.Done():
				k.logger.Info("Kafka consumer context cancelled, stopping...")
				return
			default:
				if err := k.consumer.Consume(ctx, []string{k.topic}, groupHandler); err != nil {
					k.logger.Errorf("Error consuming from Kafka: %v", err)
					time.Sleep(5 * time.Second)
				}
			}
		}
	}()

	go func() {
		for err := range k.consumer.Errors() {
			k.logger.Errorf("Kafka consumer error: %v", err)
		}
	}()

	return nil
}

func (k *KafkaConsumer) Close() error {
	k.logger.Info("Closing Kafka consumer...")

	if k.cancel != nil {
		k.cancel()
	}
	k.wg.Wait()

	if err := k.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka consumer: %w", err)
	}
	return nil
}

func (k *KafkaConsumer) HealthCheck(ctx context.Context) error {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Version = sarama.V2_8_0_0
	saramaCfg.Net.DialTimeout = 5 * time.Second

	client, err := sarama.NewClient([]string{k.broker}, saramaCfg)
	if err != nil {
		return fmt.Errorf("failed to create Kafka client: %w", err)
	}
	defer client.Close()

	topics, err := client.Topics()
	if err != nil {
		return fmt.Errorf("failed to get topics: %w", err)
	}

	for _, topic := range topics {
		if topic == k.topic {
			return nil
		}
	}
	return fmt.Errorf("topic %s not found", k.topic)
}

func (h *batchHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *batchHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *batchHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		select {
		case <-session.Context().Done():
			return nil
		default:
			var batch ports.SampleBatch
			if err := json.Unmarshal(message.Value, &batch); err != nil {
				h.logger.Errorf("Failed to deserialize message at offset %d: %v", message.Offset, err)
				// malformed payloads never become parseable; skip them
				session.MarkMessage(message, "")
				continue
			}

			if err := h.handler(session.Context(), batch); err != nil {
				h.logger.Errorf("Failed to ingest batch for %s: %v", batch.LocationID, err)
				continue
			}

			session.MarkMessage(message, "")
			h.logger.Debugf("Ingested batch for %s (%d samples, offset %d)",
				batch.LocationID, len(batch.Samples), message.Offset)
		}
	}
	return nil
}
