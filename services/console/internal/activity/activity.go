// Package activity publishes an event for every successful console mutation.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/clinicadmin/libs/kafkax"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "clinic.admin.activity"

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Resource   string    `json:"resource"`
	ResourceID int64     `json:"resourceId"`
	Action     Action    `json:"action"`
	Actor      string    `json:"actor,omitempty"`
	At         time.Time `json:"at"`
}

func (e Event) Type() string { return e.Resource + "." + string(e.Action) }

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
	now    func() time.Time
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

// NewKafkaPublisher returns Noop when no brokers are configured.
func NewKafkaPublisher(cfg KafkaConfig, logger *slog.Logger) Publisher {
	brokers := kafkax.SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		logger.Debug("activity publisher disabled (no kafka brokers configured)")
		return Noop{}
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return newKafkaPublisher(writer, cfg.Topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, logger: logger, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = p.now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	meta := kafkax.EventMeta{EventID: e.ID, EventType: e.Type(), Actor: e.Actor}
	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(e.Resource + ":" + strconv.FormatInt(e.ResourceID, 10)),
		Value:   payload,
		Headers: meta.Headers(),
	}
	msg.Headers = kafkax.InjectTraceHeaders(ctx, msg.Headers)
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("activity publish failed", "event_type", e.Type(), "err", err)
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
