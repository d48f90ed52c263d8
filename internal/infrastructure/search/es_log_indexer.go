package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
)

// LogIndexer keeps a searchable copy of the work entry audit trail in Elasticsearch.
type LogIndexer struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewLogIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *LogIndexer {
	return &LogIndexer{es: es, index: index, logger: logger}
}

const logIndexMapping = `{
  "mappings": {
    "properties": {
      "id":                  {"type": "long"},
      "user_id":             {"type": "keyword"},
      "work_entry_id":       {"type": "keyword"},
      "previous_start_date": {"type": "date"},
      "previous_end_date":   {"type": "date"},
      "created_at":          {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with keyword ids when it does not exist yet.
func (i *LogIndexer) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("search.LogIndexer.EnsureIndex: %w", err)
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: i.index, Body: strings.NewReader(logIndexMapping)}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("search.LogIndexer.EnsureIndex: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("search.LogIndexer.EnsureIndex: %s", res.Status())
	}
	return nil
}

type logDocument struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"user_id"`
	WorkEntryID       string     `json:"work_entry_id"`
	PreviousStartDate time.Time  `json:"previous_start_date"`
	PreviousEndDate   *time.Time `json:"previous_end_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (i *LogIndexer) Index(ctx context.Context, userID string, l *entity.WorkEntryLog) error {
	doc := logDocument{
		ID:                l.ID,
		UserID:            userID,
		WorkEntryID:       l.WorkEntryID,
		PreviousStartDate: l.PreviousStartDate,
		PreviousEndDate:   l.PreviousEndDate,
		CreatedAt:         l.CreatedAt,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(l.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("search.LogIndexer.Index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("search.LogIndexer.Index: %s", res.Status())
	}
	return nil
}

// Search filters the user's logs by work entry and creation window, newest first.
func (i *LogIndexer) Search(ctx context.Context, userID string, q application.LogSearchQuery) ([]*entity.WorkEntryLog, error) {
	b, err := json.Marshal(buildQuery(userID, q))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("search.LogIndexer.Search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if i.logger != nil {
			i.logger.WithField("status", res.Status()).WithField("user_id", userID).Warn("es search response error")
		}
		return nil, fmt.Errorf("search.LogIndexer.Search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source logDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("search.LogIndexer.Search: %w", err)
	}

	out := make([]*entity.WorkEntryLog, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source
		out = append(out, &entity.WorkEntryLog{
			ID:                d.ID,
			WorkEntryID:       d.WorkEntryID,
			UpdatedByUserID:   d.UserID,
			PreviousStartDate: d.PreviousStartDate,
			PreviousEndDate:   d.PreviousEndDate,
			CreatedAt:         d.CreatedAt,
		})
	}
	return out, nil
}

func buildQuery(userID string, q application.LogSearchQuery) map[string]any {
	filters := []any{
		map[string]any{"term": map[string]any{"user_id": userID}},
	}
	if q.WorkEntryID != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"work_entry_id": q.WorkEntryID}})
	}
	if q.From != nil || q.To != nil {
		rng := map[string]any{}
		if q.From != nil {
			rng["gte"] = q.From.Format(time.RFC3339)
		}
		if q.To != nil {
			rng["lte"] = q.To.Format(time.RFC3339)
		}
		filters = append(filters, map[string]any{"range": map[string]any{"created_at": rng}})
	}
	return map[string]any{
		"query": map[string]any{"bool": map[string]any{"filter": filters}},
		"sort":  []any{map[string]any{"created_at": map[string]any{"order": "desc"}}},
		"size":  q.Size,
	}
}
