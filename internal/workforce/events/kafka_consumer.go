package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads notifications and hands them to a handler. Offsets are
// committed once the handler returns, whether or not it succeeded; the
// handler owns retries.
type Consumer struct {
	reader  KafkaReader
	logger  *zap.Logger
	handler func(context.Context, Notification) error
	done    chan struct{}
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("kafka_consumer"),
		done:   make(chan struct{}),
	}
}

func (c *Consumer) RegisterHandler(fn func(context.Context, Notification) error) {
	c.handler = fn
}

// Start consumes in the background until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("Failed to fetch message", zap.Error(err))
				continue
			}
			c.process(ctx, msg)
		}
	}()
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	var n Notification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		c.logger.Error("Failed to parse notification",
			zap.Error(err),
			zap.ByteString("value", msg.Value),
		)
	} else if err := c.handler(ctx, n); err != nil {
		c.logger.Error("Failed to deliver notification",
			zap.Error(err),
			zap.String("to", n.To),
		)
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		c.logger.Error("Failed to commit message",
			zap.Error(err),
			zap.Int64("offset", msg.Offset),
		)
	}
}

// Done is closed when the consume loop has exited.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
