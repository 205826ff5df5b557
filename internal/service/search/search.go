package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/canteenhq/canteen/internal/models"
)

// Search runs a fuzzy multi-match over the menu index and returns the total
// hit count plus the matching items.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.MenuItem, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "ingredients"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
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
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.MenuItem `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	items := make([]models.MenuItem, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}

// IndexItem upserts one menu item document.
func IndexItem(ctx context.Context, es *elasticsearch.Client, index string, item models.MenuItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	res, err := es.Index(
		index,
		bytes.NewReader(raw),
		es.Index.WithDocumentID(item.ID),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index: %s", res.Status())
	}
	return nil
}

func DeleteItem(ctx context.Context, es *elasticsearch.Client, index, id string) error {
	res, err := es.Delete(index, id, es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete: %s", res.Status())
	}
	return nil
}
