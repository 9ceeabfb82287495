package worker

import (
	"context"
	"fmt"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/metrics"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/queue"

	"go.uber.org/zap"
)

// Consumer drives the worker from the job queue. Delivery is at least
// once: unresolved jobs are redelivered, terminal outcomes are acked.
type Consumer struct {
	conn   *queue.Connection
	worker *Worker
	logger *zap.Logger
}

// NewConsumer creates a new consumer.
func NewConsumer(conn *queue.Connection, w *Worker, logger *zap.Logger) *Consumer {
	return &Consumer{conn: conn, worker: w, logger: logger}
}

// Run consumes transcode jobs until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		queue.ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue.TranscodeRoutingKey,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, queue.TranscodeRoutingKey, queue.ExchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	// One transcode at a time per consumer; concurrency comes from
	// running more worker instances.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Started transcode consumer", zap.String("queue", q.Name))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping transcode consumer")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}

			err := c.worker.HandleJob(ctx, msg.Body)
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case IsPermanent(err):
				// Redelivering the same payload cannot succeed.
				c.logger.Error("Rejecting job permanently", zap.Error(err))
				metrics.JobsProcessed.WithLabelValues("rejected").Inc()
				_ = msg.Nack(false, false)
			default:
				// The record's state is unresolved; let the queue
				// redeliver.
				c.logger.Error("Requeueing job after transient failure", zap.Error(err))
				_ = msg.Nack(false, true)
			}
		}
	}
}
