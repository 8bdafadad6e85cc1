package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/gramseva/panchayat-backend/services/search/internal/index"
)

type Results struct {
	Total int64                   `json:"total"`
	Items []index.IndexedDocument `json:"items"`
}

type SearchService struct {
	ES    *elasticsearch.Client
	Index string
}

// Search queries published documents. TenantID narrows the results to
// one panchayat's site; 0 searches across all of them.
func (s *SearchService) Search(ctx context.Context, rawQuery string, tenantID uint, from, size int) (*Results, error) {
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return &Results{Items: []index.IndexedDocument{}}, nil
	}

	match := map[string]any{
		"multi_match": map[string]any{
			"query":     query,
			"fields":    []string{"title^2", "description", "category"},
			"fuzziness": "AUTO",
		},
	}

	var q map[string]any
	if tenantID > 0 {
		q = map[string]any{
			"bool": map[string]any{
				"must":   []any{match},
				"filter": []any{map[string]any{"term": map[string]any{"tenant_id": tenantID}}},
			},
		}
	} else {
		q = match
	}

	body := map[string]any{
		"query": q,
		"from":  from,
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		respBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search: %s: %s", res.Status(), respBody)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source index.IndexedDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	items := make([]index.IndexedDocument, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return &Results{Total: r.Hits.Total.Value, Items: items}, nil
}
