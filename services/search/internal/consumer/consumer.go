package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/services/search/internal/index"
)

const topic = "document-events"

type applier interface {
	Apply(ctx context.Context, ev *index.DocumentEvent) error
}

type Consumer struct {
	reader  *kafka.Reader
	indexer applier
}

func New(brokers []string, groupID string, ix *index.Indexer) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        groupID,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10 << 20,
			CommitInterval: time.Second,
		}),
		indexer: ix,
	}
}

// Run consumes until ctx is cancelled. A malformed or unindexable
// message is logged and skipped; the topic is the source of truth and
// a later event for the same document will repair the index.
func (c *Consumer) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "consumer", "topic", topic)
	l.Info("consumer_started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				l.Info("consumer_stopped")
				return nil
			}
			return err
		}

		var ev index.DocumentEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			l.Warn("skip_malformed_event", "offset", msg.Offset, "error", err)
			continue
		}

		if err := c.indexer.Apply(ctx, &ev); err != nil {
			l.Error("apply_failed", "event", ev.Type, "document_id", ev.DocumentID, "error", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
