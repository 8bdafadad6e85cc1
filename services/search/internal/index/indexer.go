// Package index keeps the public document index in step with the
// document-events topic. Only published documents are searchable: a
// document leaves the index the moment it goes private, is hidden from
// the website or is deleted.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/gramseva/panchayat-backend/pkg/logging"
)

const (
	eventDocumentCreated = "document.created"
	eventDocumentUpdated = "document.updated"
	eventDocumentDeleted = "document.deleted"
)

// DocumentEvent mirrors the wire shape the content service publishes on
// the document-events topic.
type DocumentEvent struct {
	Type          string    `json:"type"`
	TenantID      uint      `json:"tenant_id"`
	DocumentID    uint      `json:"document_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Visibility    string    `json:"visibility"`
	ShowOnWebsite bool      `json:"show_on_website"`
	IsAvailable   bool      `json:"is_available"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// IndexedDocument is what the search endpoint returns per hit.
type IndexedDocument struct {
	DocumentID  uint      `json:"document_id"`
	TenantID    uint      `json:"tenant_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func searchable(ev *DocumentEvent) bool {
	return ev.Visibility == "PUBLIC" && ev.ShowOnWebsite && ev.IsAvailable
}

// Apply upserts or removes the document depending on the event. Events
// are idempotent: replaying an update or delete leaves the index in the
// same state.
func (ix *Indexer) Apply(ctx context.Context, ev *DocumentEvent) error {
	l := logging.FromContext(ctx).With("svc", "index.apply", "event", ev.Type, "document_id", ev.DocumentID)

	switch ev.Type {
	case eventDocumentCreated, eventDocumentUpdated:
		if !searchable(ev) {
			return ix.remove(ctx, ev.DocumentID)
		}
		return ix.upsert(ctx, ev)
	case eventDocumentDeleted:
		return ix.remove(ctx, ev.DocumentID)
	default:
		l.Warn("unknown_event_type")
		return nil
	}
}

func (ix *Indexer) upsert(ctx context.Context, ev *DocumentEvent) error {
	doc := IndexedDocument{
		DocumentID:  ev.DocumentID,
		TenantID:    ev.TenantID,
		Title:       ev.Title,
		Description: ev.Description,
		Category:    ev.Category,
		UpdatedAt:   ev.OccurredAt,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(ev.DocumentID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index document %d: %w", ev.DocumentID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index document %d: %s: %s", ev.DocumentID, res.Status(), body)
	}
	return nil
}

func (ix *Indexer) remove(ctx context.Context, documentID uint) error {
	res, err := ix.ES.Delete(
		ix.Index,
		strconv.FormatUint(uint64(documentID), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete document %d: %w", documentID, err)
	}
	defer res.Body.Close()

	// 404 means the document was never searchable, which is fine
	if res.IsError() && res.StatusCode != 404 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("delete document %d: %s: %s", documentID, res.Status(), body)
	}
	return nil
}
