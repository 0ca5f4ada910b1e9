// Package kafka consumes the audit topic and feeds the ingestion pipeline.
// Delivery is at-least-once: a crash between insert and commit can replay a
// message and create a duplicate record, which the service accepts.
package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/calvin/audit-service/internal/config"
	"github.com/calvin/audit-service/internal/worker"
)

type Consumer struct {
	client  *kgo.Client
	handler *Handler
	wp      *worker.Pool
	topic   string
	log     *slog.Logger
}

func NewConsumer(cfg config.Config, handler *Handler, wp *worker.Pool, log *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.KafkaBrokers...),
		kgo.ConsumeTopics(cfg.KafkaTopic),
		kgo.ConsumerGroup(cfg.KafkaGroup),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		client:  client,
		handler: handler,
		wp:      wp,
		topic:   cfg.KafkaTopic,
		log:     log,
	}, nil
}

// EnsureTopic creates the audit topic when the broker does not have it yet.
// One partition, replication factor one, matching the producer contract.
func (c *Consumer) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(c.client)
	topics, err := adm.ListTopics(ctx)
	if err != nil {
		return err
	}
	if topics.Has(c.topic) {
		c.log.Info("kafka topic exists", "topic", c.topic)
		return nil
	}
	if _, err := adm.CreateTopic(ctx, 1, 1, nil, c.topic); err != nil {
		return err
	}
	c.log.Info("kafka topic created", "topic", c.topic)
	return nil
}

// Run polls until the context is cancelled or the client closes. Each record
// is dispatched to the worker pool; fetch errors are logged and polling
// continues, so one bad partition never stalls the rest.
func (c *Consumer) Run(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.log.Error("kafka fetch", "topic", topic, "partition", partition, "err", err)
		})
		fetches.EachRecord(func(rec *kgo.Record) {
			payload := rec.Value
			c.wp.Submit(func() {
				c.handler.Handle(context.Background(), payload)
			})
		})
	}
}

func (c *Consumer) Close() {
	c.client.Close()
}
