package kafka

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/segmentio/kafka-go"
)

// SearchEvent is published once per completed search for offline analytics.
type SearchEvent struct {
	Query      string    `json:"query"`
	ClientKey  string    `json:"client_key,omitempty"`
	Results    int       `json:"results"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Publisher emits search events. Publishing is fire-and-forget: failures are
// logged and never affect the request that produced the event.
type Publisher interface {
	SearchCompleted(ctx context.Context, event SearchEvent)
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewPublisher(cfg *config.Config) Publisher {
	if !cfg.Kafka.Enabled {
		return noopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) SearchCompleted(ctx context.Context, event SearchEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorw(ctx, "failed to marshal search event", "error", err)
		return
	}

	// Detached from the request context so a finished request does not
	// cancel the publish mid-flight.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		msg := kafka.Message{
			Key:   []byte(event.Query),
			Value: payload,
		}
		if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
			log.Warnw(writeCtx, "failed to publish search event", "error", err)
		}
	}()
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

func (noopPublisher) SearchCompleted(ctx context.Context, event SearchEvent) {}
func (noopPublisher) Close() error                                           { return nil }
