package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

// Service answers catalog search queries. With Elasticsearch configured
// it runs a fuzzy multi_match over the indexed catalog; without it the
// cached product list is filtered by plain substring, the way the
// storefront filtered client-side.
type Service struct {
	ES      *elasticsearch.Client
	Index   string
	Catalog *catalog.Cache
}

// IndexCatalog pushes the cached catalog into the search index. No-op
// when Elasticsearch is not configured.
func (s *Service) IndexCatalog(ctx context.Context) error {
	if s.ES == nil {
		return nil
	}
	for _, p := range s.Catalog.Products() {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(p); err != nil {
			return fmt.Errorf("encode product %d: %w", p.ID, err)
		}
		res, err := s.ES.Index(
			s.Index,
			&buf,
			s.ES.Index.WithContext(ctx),
			s.ES.Index.WithDocumentID(strconv.Itoa(p.ID)),
		)
		if err != nil {
			return fmt.Errorf("index product %d: %w", p.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index product %d: %s", p.ID, res.Status())
		}
	}
	return nil
}

func (s *Service) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.ES == nil {
		return s.searchLocal(query, from, size)
	}
	return s.searchES(ctx, query, from, size)
}

func (s *Service) searchES(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return r.Hits.Total.Value, products, nil
}

func (s *Service) searchLocal(query string, from, size int) (int64, []models.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, nil, nil
	}

	var matched []models.Product
	for _, p := range s.Catalog.Products() {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			matched = append(matched, p)
		}
	}

	total := int64(len(matched))
	if from >= len(matched) {
		return total, nil, nil
	}
	matched = matched[from:]
	if size > 0 && size < len(matched) {
		matched = matched[:size]
	}
	return total, matched, nil
}
