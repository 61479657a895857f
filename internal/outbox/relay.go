package outbox

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
)

// ParseBrokers splits a comma-separated broker list, dropping empties. An
// empty result means the relay stays disabled.
func ParseBrokers(brokersCSV string) []string {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewWriter builds a topic-less writer; each relayed message carries the
// topic its outbox row was written with.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// Relay drains committed outbox rows to Kafka. Delivery is at-least-once: a
// row is marked sent only after the write succeeds, so a crash between the
// two can replay an event.
type Relay struct {
	pool     *pgxpool.Pool
	writer   *kafka.Writer
	interval time.Duration
}

func NewRelay(pool *pgxpool.Pool, writer *kafka.Writer, interval time.Duration) *Relay {
	return &Relay{pool: pool, writer: writer, interval: interval}
}

func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.drain(ctx); err != nil && ctx.Err() == nil {
				slog.Error("outbox drain failed", "error", err)
			}
		}
	}
}

func (r *Relay) drain(ctx context.Context) error {
	records, err := FetchPending(ctx, r.pool, 100)
	if err != nil {
		return err
	}
	for _, rec := range records {
		msg := kafka.Message{
			Topic: rec.Topic,
			Key:   []byte(rec.Key),
			Value: rec.Payload,
			Time:  time.Now().UTC(),
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(rec.EventID)},
			},
		}
		if err := r.writer.WriteMessages(ctx, msg); err != nil {
			return err
		}
		if err := MarkSent(ctx, r.pool, rec.ID); err != nil {
			return err
		}
		slog.Debug("outbox event relayed", "event_id", rec.EventID, "topic", rec.Topic)
	}
	return nil
}
