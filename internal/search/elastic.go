package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	es8 "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Posts are matched with edit distance 2 so near-miss queries
// ("gardning") still find their posts.
const fuzziness = 2

const (
	defaultPageSize = 15
	maxPageSize     = 50
)

// searchFields are the document fields a query runs over.
var searchFields = []string{"title", "content", "blogName", "preferredBlogName", "tags"}

// postMapping keeps text fields analyzed and everything else exact.
const postMapping = `{
  "mappings": {
    "properties": {
      "title":             {"type": "text"},
      "content":           {"type": "text"},
      "blogName":          {"type": "text"},
      "preferredBlogName": {"type": "text"},
      "tags":              {"type": "text"},
      "id":                {"type": "long"},
      "blogId":            {"type": "long"},
      "published":         {"type": "boolean"},
      "createdAt":         {"type": "date"}
    }
  }
}`

// Elastic implements Index on an Elasticsearch cluster.
type Elastic struct {
	client *es8.Client
	index  string
}

// NewElastic connects to the cluster and returns an Index writing to
// the named index.
func NewElastic(addresses []string, index string) (*Elastic, error) {
	client, err := es8.NewClient(es8.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Elastic{client: client, index: index}, nil
}

// EnsureIndex creates the post index with its mapping. An already
// existing index is not an error.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists([]string{e.index},
		e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", e.index, err)
	}
	drain(exists)
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := e.client.Indices.Create(e.index,
		e.client.Indices.Create.WithContext(ctx),
		e.client.Indices.Create.WithBody(bytes.NewBufferString(postMapping)))
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", e.index, err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("failed to create index %s: %s", e.index, res.String())
	}
	return nil
}

func (e *Elastic) IndexPost(ctx context.Context, doc PostDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal post document: %w", err)
	}

	res, err := e.client.Index(e.index, bytes.NewReader(body),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)))
	if err != nil {
		return fmt.Errorf("failed to index post %d: %w", doc.ID, err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("failed to index post %d: %s", doc.ID, res.String())
	}
	return nil
}

func (e *Elastic) DeletePost(ctx context.Context, id int64) error {
	res, err := e.client.Delete(e.index, strconv.FormatInt(id, 10),
		e.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete post %d from index: %w", id, err)
	}
	defer drain(res)
	// 404 means the post was never indexed (e.g. created unpublished);
	// deletion is idempotent.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to delete post %d from index: %s", id, res.String())
	}
	return nil
}

func (e *Elastic) Search(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(buildQuery(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer drain(res)
	if res.IsError() {
		return nil, fmt.Errorf("failed to search posts: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := &Result{Total: parsed.Hits.Total.Value}
	for _, hit := range parsed.Hits.Hits {
		result.IDs = append(result.IDs, hit.Source.ID)
	}
	return result, nil
}

// buildQuery assembles the fuzzy multi_match restricted to published
// posts. Split out so the query shape is testable without a cluster.
func buildQuery(req Request) map[string]any {
	size := req.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	return map[string]any{
		"from": (page - 1) * size,
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     req.Query,
						"fields":    searchFields,
						"fuzziness": fuzziness,
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"published": true},
				},
			},
		},
	}
}

// drain discards the response body so the transport can reuse the
// connection.
func drain(res *esapi.Response) {
	if res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
