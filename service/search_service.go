package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/models"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// SearchIndexer mirrors initiatives into Elasticsearch for full text search.
// A nil *SearchIndexer is valid and reports Enabled() == false.
type SearchIndexer struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewSearchIndexer returns nil when url is empty.
func NewSearchIndexer(url, index string, logger *zap.Logger) (*SearchIndexer, error) {
	if url == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchIndexer{client: client, index: index, logger: logger.Named("search")}, nil
}

func (s *SearchIndexer) Enabled() bool {
	return s != nil && s.client != nil
}

// SearchDocument is the indexed shape of an initiative.
type SearchDocument struct {
	ID                uint            `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	ProblemStatement  string          `json:"problem_statement"`
	Category          models.Category `json:"category"`
	Priority          models.Priority `json:"priority"`
	CurrentStage      lifecycle.Stage `json:"current_stage"`
	SubmitterName     string          `json:"submitter_name,omitempty"`
	BusinessOwnerName string          `json:"business_owner_name,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SearchHit is one match returned by Search.
type SearchHit struct {
	SearchDocument
	Score float64 `json:"score"`
}

func searchDocument(i *models.Initiative) SearchDocument {
	return SearchDocument{
		ID:                i.ID,
		Title:             i.Title,
		Description:       i.Description,
		ProblemStatement:  i.ProblemStatement,
		Category:          i.Category,
		Priority:          i.Priority,
		CurrentStage:      i.CurrentStage,
		SubmitterName:     i.SubmitterName,
		BusinessOwnerName: i.BusinessOwnerName,
		UpdatedAt:         i.UpdatedAt,
	}
}

// IndexInitiative upserts the initiative document. It is a no-op when search
// is not configured.
func (s *SearchIndexer) IndexInitiative(ctx context.Context, initiative *models.Initiative) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(searchDocument(initiative))
	if err != nil {
		return fmt.Errorf("failed to marshal initiative for indexing: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(strconv.FormatUint(uint64(initiative.ID), 10)),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch indexing failed: %s", res.String())
	}
	s.logger.Debug("initiative indexed", zap.Uint("initiative_id", initiative.ID))
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64        `json:"_score"`
			Source SearchDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a multi_match query over the text fields.
func (s *SearchIndexer) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if !s.Enabled() {
		return nil, ErrSearchUnavailable
	}
	if limit <= 0 {
		limit = 20
	}

	searchQuery := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "description", "problem_statement", "submitter_name", "business_owner_name"},
			},
		},
	}
	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, SearchHit{SearchDocument: h.Source, Score: h.Score})
	}
	return hits, nil
}
