package producer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// KafkaProducer publishes sample batches, one message per location, keyed by
// location so the topic preserves per-location ordering across partitions.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Logger
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) (ports.SampleProducer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.RequiredAcks(cfg.RequiredAcks)
	saramaCfg.Producer.Retry.Max = cfg.MaxRetries
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer([]string{cfg.Broker}, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &KafkaProducer{
		producer: producer,
		topic:    cfg.Topic,
		logger:   log.WithField("component", "kafka_producer"),
	}, nil
}

func (k *KafkaProducer) Produce(ctx context.Context, batch ports.SampleBatch) error {
	msg, err := k.message(batch)
	if err != nil {
		return err
	}

	_, _, err = k.producer.SendMessage(msg)
	if err != nil {
		k.logger.Errorf("Failed to produce batch for %s: %v", batch.LocationID, err)
		return err
	}
	return nil
}

func (k *KafkaProducer) ProduceAll(ctx context.Context, batches []ports.SampleBatch) error {
	if len(batches) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(batches))
	for _, batch := range batches {
		msg, err := k.message(batch)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	if err := k.producer.SendMessages(messages); err != nil {
		k.logger.Errorf("Failed to produce %d batches: %v", len(batches), err)
		return err
	}

	k.logger.Debugf("Produced %d sample batches", len(batches))
	return nil
}

func (k *KafkaProducer) message(batch ports.SampleBatch) (*sarama.ProducerMessage, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}
	return &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(batch.LocationID),
		Value: sarama.ByteEncoder(data),
	}, nil
}

func (k *KafkaProducer) HealthCheck(ctx context.Context) error {
	if k.producer == nil {
		return errors.New("kafka producer is nil")
	}

	msg := &sarama.ProducerMessage{
		Topic: "__healthcheck",
		Value: sarama.ByteEncoder([]byte("ping")),
	}

	_, _, err := k.producer.SendMessage(msg)
	return err
}

func (k *KafkaProducer) Close() error {
	if k.producer == nil {
		return nil
	}
	return k.producer.Close()
}
