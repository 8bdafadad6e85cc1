// Package events publishes document lifecycle events to Kafka. The
// search service consumes them to keep its public index current.
// Publishing is best effort: a broker failure is logged and counted,
// never surfaced to the user operation that triggered it.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/pkg/metrics"
	"github.com/gramseva/panchayat-backend/services/content/internal/models"
)

const (
	Topic = "document-events"

	TypeDocumentCreated = "document.created"
	TypeDocumentUpdated = "document.updated"
	TypeDocumentDeleted = "document.deleted"
)

// DocumentEvent is the wire shape on the document-events topic, keyed
// by tenant id so per-tenant ordering holds within a partition.
type DocumentEvent struct {
	Type          string            `json:"type"`
	TenantID      uint              `json:"tenant_id"`
	DocumentID    uint              `json:"document_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Visibility    models.Visibility `json:"visibility"`
	ShowOnWebsite bool              `json:"show_on_website"`
	IsAvailable   bool              `json:"is_available"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Producer struct {
	w writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// PublishDocument emits one lifecycle event. Errors are swallowed after
// logging: event delivery must never fail a document operation.
func (p *Producer) PublishDocument(ctx context.Context, eventType string, doc *models.Document) {
	l := logging.FromContext(ctx).With("svc", "events.publish", "event", eventType, "document_id", doc.ID)

	ev := DocumentEvent{
		Type:          eventType,
		TenantID:      doc.TenantID,
		DocumentID:    doc.ID,
		Title:         doc.Title,
		Description:   doc.Description,
		Category:      doc.Category,
		Visibility:    doc.Visibility,
		ShowOnWebsite: doc.ShowOnWebsite,
		IsAvailable:   doc.IsAvailable,
		OccurredAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		l.Error("marshal event", "error", err)
		metrics.DocumentEventsTotal.WithLabelValues(eventType, "error").Inc()
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(doc.TenantID), 10)),
		Value: data,
	}
	if err := p.w.WriteMessages(writeCtx, msg); err != nil {
		l.Warn("publish failed", "error", err)
		metrics.DocumentEventsTotal.WithLabelValues(eventType, "error").Inc()
		return
	}
	metrics.DocumentEventsTotal.WithLabelValues(eventType, "ok").Inc()
}

func (p *Producer) Close() error {
	if w, ok := p.w.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}
