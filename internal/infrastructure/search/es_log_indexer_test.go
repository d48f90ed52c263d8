package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

type recorded struct {
	method string
	path   string
	body   string
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*LogIndexer, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := helpers.NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewLogIndexer(es, "work_entry_logs", nil), &reqs
}

func TestLogIndexer_Index(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	end := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	l := &entity.WorkEntryLog{ID: 42, WorkEntryID: "w1", PreviousStartDate: end.Add(-3 * time.Hour), PreviousEndDate: &end, CreatedAt: end}

	require.NoError(t, idx.Index(context.Background(), "u1", l))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/work_entry_logs/_doc/42", got.path)
	var doc logDocument
	require.NoError(t, json.Unmarshal([]byte(got.body), &doc))
	assert.Equal(t, "u1", doc.UserID)
	assert.Equal(t, "w1", doc.WorkEntryID)
}

func TestLogIndexer_IndexErrorStatus(t *testing.T) {
	idx, _ := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
	})

	err := idx.Index(context.Background(), "u1", &entity.WorkEntryLog{ID: 1})

	assert.Error(t, err)
}

func TestLogIndexer_Search(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":7,"user_id":"u1","work_entry_id":"w1","previous_start_date":"2024-03-14T09:00:00Z","created_at":"2024-03-14T18:00:00Z"}}]}}`))
	})

	logs, err := idx.Search(context.Background(), "u1", application.LogSearchQuery{WorkEntryID: "w1", Size: 10})

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(7), logs[0].ID)
	assert.Equal(t, "u1", logs[0].UpdatedByUserID)
	assert.Nil(t, logs[0].PreviousEndDate)
	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/work_entry_logs/_search"))
}

func TestLogIndexer_EnsureIndexCreatesMissing(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))

	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[1].method)
	assert.Contains(t, (*reqs)[1].body, `"keyword"`)
}

func TestBuildQuery(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	b, err := json.Marshal(buildQuery("u1", application.LogSearchQuery{WorkEntryID: "w1", From: &from, Size: 5}))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"query": {"bool": {"filter": [
			{"term": {"user_id": "u1"}},
			{"term": {"work_entry_id": "w1"}},
			{"range": {"created_at": {"gte": "2024-03-01T00:00:00Z"}}}
		]}},
		"sort": [{"created_at": {"order": "desc"}}],
		"size": 5
	}`, string(b))
}
