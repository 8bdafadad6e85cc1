package index

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeES records index/delete calls the way a single-node cluster would
// answer them.
type fakeES struct {
	mu      sync.Mutex
	indexed map[string]IndexedDocument
	deleted []string
}

func newFakeES(t *testing.T) (*fakeES, *elasticsearch.Client) {
	t.Helper()
	f := &fakeES{indexed: map[string]IndexedDocument{}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodPut, http.MethodPost:
			var doc IndexedDocument
			require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
			id := r.URL.Path[len("/documents/_doc/"):]
			f.indexed[id] = doc
			w.Write([]byte(`{"result":"created"}`))
		case http.MethodDelete:
			id := r.URL.Path[len("/documents/_doc/"):]
			f.deleted = append(f.deleted, id)
			if _, ok := f.indexed[id]; !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"result":"not_found"}`))
				return
			}
			delete(f.indexed, id)
			w.Write([]byte(`{"result":"deleted"}`))
		default:
			w.Write([]byte(`{}`))
		}
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return f, client
}

func publishedEvent(eventType string, id uint) *DocumentEvent {
	return &DocumentEvent{
		Type:          eventType,
		TenantID:      1,
		DocumentID:    id,
		Title:         "Budget 2026",
		Description:   "Annual budget",
		Category:      "budget",
		Visibility:    "PUBLIC",
		ShowOnWebsite: true,
		IsAvailable:   true,
		OccurredAt:    time.Now().UTC(),
	}
}

func TestApply_CreatedPublishedDocument_Indexed(t *testing.T) {
	t.Parallel()

	f, client := newFakeES(t)
	ix := &Indexer{ES: client, Index: "documents"}

	require.NoError(t, ix.Apply(context.Background(), publishedEvent("document.created", 42)))

	doc, ok := f.indexed["42"]
	require.True(t, ok)
	assert.Equal(t, "Budget 2026", doc.Title)
	assert.Equal(t, uint(1), doc.TenantID)
}

func TestApply_UpdateToPrivate_RemovesFromIndex(t *testing.T) {
	t.Parallel()

	f, client := newFakeES(t)
	ix := &Indexer{ES: client, Index: "documents"}
	ctx := context.Background()

	require.NoError(t, ix.Apply(ctx, publishedEvent("document.created", 42)))

	ev := publishedEvent("document.updated", 42)
	ev.Visibility = "PRIVATE"
	require.NoError(t, ix.Apply(ctx, ev))

	_, ok := f.indexed["42"]
	assert.False(t, ok)
}

func TestApply_HiddenFromWebsite_NotIndexed(t *testing.T) {
	t.Parallel()

	f, client := newFakeES(t)
	ix := &Indexer{ES: client, Index: "documents"}

	ev := publishedEvent("document.created", 7)
	ev.ShowOnWebsite = false
	require.NoError(t, ix.Apply(context.Background(), ev))

	assert.Empty(t, f.indexed)
}

func TestApply_DeleteUnknownDocument_NoError(t *testing.T) {
	t.Parallel()

	_, client := newFakeES(t)
	ix := &Indexer{ES: client, Index: "documents"}

	// 404 from the cluster is fine, the document was never public
	require.NoError(t, ix.Apply(context.Background(), publishedEvent("document.deleted", 99)))
}

func TestApply_UnknownEventType_Skipped(t *testing.T) {
	t.Parallel()

	f, client := newFakeES(t)
	ix := &Indexer{ES: client, Index: "documents"}

	ev := publishedEvent("document.archived", 1)
	require.NoError(t, ix.Apply(context.Background(), ev))
	assert.Empty(t, f.indexed)
	assert.Empty(t, f.deleted)
}
