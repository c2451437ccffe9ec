package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventTypeRunCompleted emitted once per finished ingestion run
const EventTypeRunCompleted = "ingestion.run_completed"

// RunCompleted summary of a finished ingestion run
type RunCompleted struct {
	RunID      string       `json:"runId"`
	TenantID   int64        `json:"tenantId"`
	Trigger    string       `json:"trigger"`
	Status     string       `json:"status"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Steps      []StepRecord `json:"steps"`
}

// StepRecord per-step outcome carried in the event
type StepRecord struct {
	Step    string `json:"step"`
	Status  string `json:"status"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// Publisher fan-out point for run notifications
type Publisher interface {
	PublishRunCompleted(ctx context.Context, event RunCompleted) error
	Close() error
}

// ==================== Kafka ====================

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes run events to one topic, keyed by tenant so a
// tenant's events stay ordered within a partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		timeout: 5 * time.Second,
	}
}

func (p *KafkaPublisher) PublishRunCompleted(ctx context.Context, event RunCompleted) error {
	msg, err := runMessage(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write run event to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func runMessage(event RunCompleted) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal run event: %w", err)
	}
	tenant := []byte(strconv.FormatInt(event.TenantID, 10))
	return kafka.Message{
		Key:   tenant,
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeRunCompleted)},
			{Key: "tenant_id", Value: tenant},
		},
	}, nil
}

// ==================== Noop ====================

// NoopPublisher used when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) PublishRunCompleted(context.Context, RunCompleted) error { return nil }

func (NoopPublisher) Close() error { return nil }
