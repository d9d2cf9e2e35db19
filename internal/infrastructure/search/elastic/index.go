// Package elastic is the Elasticsearch implementation of the job search index.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

// Config locates the cluster and the jobs index.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Index implements ports.SearchIndex on one Elasticsearch index.
type Index struct {
	es    *elasticsearch.Client
	index string
	log   zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) (*Index, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Index{es: es, index: cfg.Index, log: log}, nil
}

// mapping mirrors the fields named in package search.
var mapping = map[string]any{
	"settings": map[string]any{
		"number_of_shards":   1,
		"number_of_replicas": 0,
		"analysis": map[string]any{
			"analyzer": map[string]any{
				"job_text": map[string]any{
					"type":      "custom",
					"tokenizer": "standard",
					"filter":    []string{"lowercase", "stop", "snowball"},
				},
			},
		},
	},
	"mappings": map[string]any{
		"properties": map[string]any{
			"id": map[string]any{"type": "keyword"},
			search.FieldTitle: map[string]any{
				"type":     "text",
				"analyzer": "job_text",
				"fields": map[string]any{
					"suggest": map[string]any{"type": "completion"},
				},
			},
			search.FieldDescription:  map[string]any{"type": "text", "analyzer": "job_text"},
			search.FieldRequirements: map[string]any{"type": "text", "analyzer": "job_text"},
			search.FieldCompanyName:  map[string]any{"type": "text", "analyzer": "job_text"},
			search.FieldLocation: map[string]any{
				"type":     "text",
				"analyzer": "job_text",
				"fields": map[string]any{
					"raw": map[string]any{"type": "keyword"},
				},
			},
			search.FieldCompanyIndustry: map[string]any{"type": "keyword"},
			search.FieldEmploymentType:  map[string]any{"type": "keyword"},
			search.FieldStatus:          map[string]any{"type": "keyword"},
			search.FieldRemote:          map[string]any{"type": "boolean"},
			search.FieldSalaryMin:       map[string]any{"type": "long"},
			search.FieldSalaryMax:       map[string]any{"type": "long"},
			search.FieldCreatedAt:       map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the jobs index with its mapping when it does not exist.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	res, err := ix.es.Indices.Exists([]string{ix.index}, ix.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encode(mapping)
	if err != nil {
		return err
	}
	res, err = ix.es.Indices.Create(ix.index,
		ix.es.Indices.Create.WithContext(ctx),
		ix.es.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	ix.log.Info().Str("index", ix.index).Msg("search index created")
	return nil
}

// Ping reports whether the cluster answers.
func (ix *Index) Ping(ctx context.Context) error {
	res, err := ix.es.Ping(ix.es.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("ping", res)
	}
	return nil
}

type bucket struct {
	Key         any    `json:"key"`
	KeyAsString string `json:"key_as_string"`
	DocCount    int64  `json:"doc_count"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string              `json:"_id"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []bucket `json:"buckets"`
	} `json:"aggregations"`
}

func (ix *Index) SearchJobs(ctx context.Context, q *search.Query) (*ports.SearchHits, error) {
	body, err := encode(q.Source())
	if err != nil {
		return nil, err
	}
	res, err := ix.es.Search(
		ix.es.Search.WithContext(ctx),
		ix.es.Search.WithIndex(ix.index),
		ix.es.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := &ports.SearchHits{
		IDs:          make([]string, 0, len(sr.Hits.Hits)),
		Total:        sr.Hits.Total.Value,
		Aggregations: make(map[string]map[string]int64, len(sr.Aggregations)),
		Highlights:   make(map[string]map[string][]string),
	}
	for _, h := range sr.Hits.Hits {
		hits.IDs = append(hits.IDs, h.ID)
		if len(h.Highlight) > 0 {
			hits.Highlights[h.ID] = h.Highlight
		}
	}
	for name, agg := range sr.Aggregations {
		counts := make(map[string]int64, len(agg.Buckets))
		for _, b := range agg.Buckets {
			counts[b.label()] = b.DocCount
		}
		hits.Aggregations[name] = counts
	}
	return hits, nil
}

// label prefers key_as_string, which boolean terms carry as "true"/"false".
func (b bucket) label() string {
	if b.KeyAsString != "" {
		return b.KeyAsString
	}
	return fmt.Sprint(b.Key)
}

type suggestResponse struct {
	Suggest map[string][]struct {
		Options []struct {
			Text string `json:"text"`
		} `json:"options"`
	} `json:"suggest"`
}

func (ix *Index) Suggest(ctx context.Context, q *search.SuggestQuery) ([]string, error) {
	body, err := encode(q.Source())
	if err != nil {
		return nil, err
	}
	res, err := ix.es.Search(
		ix.es.Search.WithContext(ctx),
		ix.es.Search.WithIndex(ix.index),
		ix.es.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("suggest", res)
	}

	var sr suggestResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode suggest response: %w", err)
	}
	out := []string{}
	for _, entry := range sr.Suggest["title_suggest"] {
		for _, o := range entry.Options {
			out = append(out, o.Text)
		}
	}
	return out, nil
}

// IndexJob upserts the job document under its id.
func (ix *Index) IndexJob(ctx context.Context, doc ports.JobDocument) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}
	res, err := ix.es.Index(ix.index, body,
		ix.es.Index.WithContext(ctx),
		ix.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("index job %s: %w", doc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index job", res)
	}
	return nil
}

// DeleteJob removes the document; a missing document is not an error.
func (ix *Index) DeleteJob(ctx context.Context, id string) error {
	res, err := ix.es.Delete(ix.index, id, ix.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError("delete job", res)
	}
	return nil
}

func encode(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return &buf, nil
}

func responseError(op string, res *esapi.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("%s: elasticsearch returned %s: %s", op, res.Status(), bytes.TrimSpace(raw))
}
