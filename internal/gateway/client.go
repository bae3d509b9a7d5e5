package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nhath/ezquery/internal/db"
)

// RemoteError is a failure reported by the gateway
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Client runs statements against a remote gateway. It implements
// db.Executor.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the gateway at baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// wireResponse mirrors queryResponse; rows are decoded by column name
type wireResponse struct {
	Columns         []string         `json:"columns"`
	Rows            []map[string]any `json:"rows"`
	ExecutionTimeMs int64            `json:"executionTimeMs"`
}

// Execute implements db.Executor
func (c *Client) Execute(ctx context.Context, req db.Request) (*db.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+QueryPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, db.WrapConnectionError(err)
	}
	defer resp.Body.Close()

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if err := decoder.Decode(&e); err != nil || e.Error == "" {
			return nil, &RemoteError{Status: resp.StatusCode, Message: fmt.Sprintf("gateway returned %s", resp.Status)}
		}
		return nil, &RemoteError{Status: resp.StatusCode, Message: e.Error}
	}

	var wire wireResponse
	if err := decoder.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	rows := make([][]any, len(wire.Rows))
	for i, m := range wire.Rows {
		values := make([]any, len(wire.Columns))
		for j, col := range wire.Columns {
			values[j] = m[col]
		}
		rows[i] = values
	}

	return &db.Response{
		Columns:       wire.Columns,
		Rows:          rows,
		ExecutionTime: time.Duration(wire.ExecutionTimeMs) * time.Millisecond,
	}, nil
}
