// File path: internal/vector/chromadb.go
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/common/telemetry"
)

// Client is the Chroma REST backend. The collection is looked up lazily and
// only created by Upsert; searching a missing collection is an error.
type Client struct {
	httpClient *http.Client
	transport  *http.Transport

	baseURL    string
	collection string
	apiKey     string

	mu           sync.RWMutex
	collectionID string
	available    bool
}

var (
	errNotFound           = errors.New("resource not found")
	errConflict           = errors.New("resource conflict")
	errCollectionNotBuilt = errors.New("collection not found; run the index build first")
)

func NewFromEnv(ctx context.Context) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// New constructs the client and pings the server once. An unreachable server
// is logged, not fatal: every later Search reports it.
func New(ctx context.Context, cfg Config) (*Client, error) {
	logger := common.Logger()
	logger.Info("vector: initializing chromadb client",
		"host", cfg.Host,
		"port", cfg.Port,
		"collection", cfg.Collection,
		"timeout", cfg.Timeout,
	)
	transport := &http.Transport{
		MaxIdleConns:        cfg.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: cfg.HTTPMaxIdleConns,
		IdleConnTimeout:     cfg.HTTPIdleConnTimeout,
	}
	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		transport:  transport,
		baseURL:    strings.TrimRight(cfg.BaseURL(), "/"),
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
	}
	if err := client.ensureReady(ctx, false); err != nil {
		logger.Warn("vector: chromadb not ready", "collection", cfg.Collection, "error", err)
		return client, nil
	}
	logger.Info("vector: chromadb connection established", "collection", cfg.Collection)
	return client, nil
}

func (c *Client) Name() string {
	return "chroma"
}

func (c *Client) Available() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

func (c *Client) ensureReady(ctx context.Context, create bool) error {
	if c == nil {
		return errors.New("chromadb client not configured")
	}
	c.mu.RLock()
	ready := c.available && c.collectionID != ""
	c.mu.RUnlock()
	if ready {
		return nil
	}
	if err := c.health(ctx); err != nil {
		c.setAvailable(false)
		return err
	}
	id, err := c.findCollection(ctx, c.collection)
	if err != nil {
		c.setAvailable(false)
		return err
	}
	if id == "" {
		if !create {
			c.setAvailable(false)
			return errCollectionNotBuilt
		}
		if id, err = c.createCollection(ctx, c.collection); err != nil {
			c.setAvailable(false)
			return err
		}
	}
	c.mu.Lock()
	c.collectionID = id
	c.available = true
	c.mu.Unlock()
	return nil
}

func (c *Client) setAvailable(v bool) {
	c.mu.Lock()
	c.available = v
	c.mu.Unlock()
}

func (c *Client) collectionPath(suffix string) string {
	c.mu.RLock()
	id := c.collectionID
	c.mu.RUnlock()
	return fmt.Sprintf("%s/collections/%s/%s", c.baseURL, url.PathEscape(id), suffix)
}

func (c *Client) Upsert(ctx context.Context, docs []Document, vectors [][]float32) error {
	if len(docs) == 0 {
		return nil
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("chromadb upsert: %d docs but %d vectors", len(docs), len(vectors))
	}
	if err := c.ensureReady(ctx, true); err != nil {
		return err
	}
	ids := make([]string, 0, len(docs))
	documents := make([]string, 0, len(docs))
	metadatas := make([]map[string]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
		documents = append(documents, doc.Content)
		meta := doc.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		metadatas = append(metadatas, meta)
	}
	payload := map[string]any{
		"ids":        ids,
		"documents":  documents,
		"metadatas":  metadatas,
		"embeddings": vectors,
	}
	if err := c.doRequest(ctx, http.MethodPost, c.collectionPath("upsert"), payload, nil); err != nil {
		if errors.Is(err, errNotFound) {
			return c.doRequest(ctx, http.MethodPost, c.collectionPath("add"), payload, nil)
		}
		return err
	}
	return nil
}

func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]SearchResult, error) {
	start := time.Now()
	if err := c.ensureReady(ctx, false); err != nil {
		telemetry.RecordVectorSearch(false, time.Since(start))
		return nil, err
	}
	if limit <= 0 {
		limit = 4
	}
	body := map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        limit,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp struct {
		IDs       [][]string         `json:"ids"`
		Distances [][]float64        `json:"distances"`
		Metadatas [][]map[string]any `json:"metadatas"`
		Documents [][]string         `json:"documents"`
	}
	if err := c.doRequest(ctx, http.MethodPost, c.collectionPath("query"), body, &resp); err != nil {
		telemetry.RecordVectorSearch(false, time.Since(start))
		return nil, err
	}
	telemetry.RecordVectorSearch(true, time.Since(start))
	if len(resp.IDs) == 0 {
		return nil, nil
	}
	// Chroma already orders by ascending distance.
	results := make([]SearchResult, 0, len(resp.IDs[0]))
	for idx, id := range resp.IDs[0] {
		res := SearchResult{ID: id}
		if len(resp.Documents) > 0 && idx < len(resp.Documents[0]) {
			res.Content = resp.Documents[0][idx]
		}
		if len(resp.Metadatas) > 0 && idx < len(resp.Metadatas[0]) {
			res.Metadata = resp.Metadatas[0][idx]
		}
		if len(resp.Distances) > 0 && idx < len(resp.Distances[0]) {
			res.Score = float32(1.0 / (1.0 + resp.Distances[0][idx]))
		}
		results = append(results, res)
	}
	return results, nil
}

var _ Store = (*Client)(nil)

func (c *Client) findCollection(ctx context.Context, name string) (string, error) {
	var resp []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/collections", nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return "", nil
		}
		return "", err
	}
	for _, col := range resp {
		if strings.EqualFold(col.Name, name) {
			return col.ID, nil
		}
	}
	return "", nil
}

func (c *Client) createCollection(ctx context.Context, name string) (string, error) {
	payload := map[string]any{"name": name, "metadata": map[string]string{"hnsw:space": "cosine"}}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/collections", payload, &resp); err != nil {
		if errors.Is(err, errConflict) {
			return c.findCollection(ctx, name)
		}
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) health(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, c.baseURL+"/heartbeat", nil, nil)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusConflict:
		return errConflict
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chromadb %s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Close releases pooled connections.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}
