package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// Notification is a mail to deliver out of band.
type Notification struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes notifications to Kafka from a background loop so
// that Dispatch never blocks the caller.
type Producer struct {
	writer    KafkaWriter
	events    chan Notification
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

const (
	queueSize    = 1000
	writeTimeout = 10 * time.Second
)

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	p := &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			Topic:                  topic,
			AllowAutoTopicCreation: true,
		},
		events:    make(chan Notification, queueSize),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}

	go p.eventLoop()
	return p
}

// EnsureTopic creates the notification topic if it does not exist yet.
func EnsureTopic(brokers []string, topic string, logger *zap.Logger) error {
	if len(brokers) == 0 {
		return fmt.Errorf("no Kafka brokers configured")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial Kafka: %w", err)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.String("topic", topic), zap.Error(err))
	}
	return nil
}

// Dispatch queues n for delivery. A full queue drops the notification.
func (p *Producer) Dispatch(n Notification) {
	select {
	case p.events <- n:
	default:
		p.logger.Warn("Kafka producer queue full, dropping notification",
			zap.String("to", n.To),
			zap.String("title", n.Title),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case n := <-p.events:
			p.send(n)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

func (p *Producer) drain() {
	for {
		select {
		case n := <-p.events:
			p.send(n)
		default:
			return
		}
	}
}

func (p *Producer) send(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	p.sendNotification(ctx, n)
}

func (p *Producer) sendNotification(ctx context.Context, n Notification) {
	value, err := jsonMarshal(n)
	if err != nil {
		p.logger.Error("Failed to serialize notification",
			zap.Error(err),
			zap.String("to", n.To),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.To),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce notification",
			zap.Error(err),
			zap.String("to", n.To),
		)
		return
	}
	p.logger.Debug("Notification produced", zap.String("to", n.To))
}

// Close flushes queued notifications and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
