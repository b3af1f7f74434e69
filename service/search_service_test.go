package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElastic struct {
	mu       sync.Mutex
	indexed  map[string]map[string]interface{}
	lastPath string
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPath = r.URL.Path

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodPut, http.MethodPost:
		if r.URL.Path == "/initiatives/_search" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"hits": map[string]interface{}{
					"hits": []map[string]interface{}{
						{"_score": 2.5, "_source": f.indexed["7"]},
					},
				},
			})
			return
		}
		body, _ := io.ReadAll(r.Body)
		var doc map[string]interface{}
		json.Unmarshal(body, &doc)
		f.indexed["7"] = doc
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestSearchIndexer_Disabled(t *testing.T) {
	s, err := NewSearchIndexer("", "initiatives", nil)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.False(t, s.Enabled())

	assert.NoError(t, s.IndexInitiative(context.Background(), &models.Initiative{ID: 1}))
	_, err = s.Search(context.Background(), "anything", 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestSearchIndexer_IndexAndSearch(t *testing.T) {
	es := &fakeElastic{indexed: map[string]map[string]interface{}{}}
	srv := httptest.NewServer(es)
	defer srv.Close()

	s, err := NewSearchIndexer(srv.URL, "initiatives", nil)
	require.NoError(t, err)
	require.True(t, s.Enabled())

	ctx := context.Background()
	err = s.IndexInitiative(ctx, &models.Initiative{
		ID:            7,
		Title:         "Predictive maintenance",
		Description:   "Use sensor data to predict failures.",
		Category:      models.CategoryTechnology,
		Priority:      models.PriorityHigh,
		CurrentStage:  lifecycle.StageConcept,
		SubmitterName: "Ada Lovelace",
		UpdatedAt:     time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "/initiatives/_doc/7", es.lastPath)
	assert.Equal(t, "Predictive maintenance", es.indexed["7"]["title"])

	hits, err := s.Search(ctx, "sensor", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, uint(7), hits[0].ID)
	assert.Equal(t, lifecycle.StageConcept, hits[0].CurrentStage)
	assert.Equal(t, "Ada Lovelace", hits[0].SubmitterName)
	assert.InDelta(t, 2.5, hits[0].Score, 0.001)
}
