package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezquery/internal/db"
)

// stubExecutor sanitizes like the real service and returns a canned result
type stubExecutor struct {
	resp *db.Response
	err  error
	seen []string
}

func (s *stubExecutor) Execute(_ context.Context, req db.Request) (*db.Response, error) {
	stmt, err := db.Sanitize(req.Statement, db.DefaultLimit, db.MaxLimit)
	if err != nil {
		return nil, err
	}
	s.seen = append(s.seen, stmt)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func newTestServer(t *testing.T, exec db.Executor) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(Config{Executor: exec}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func sampleResponse() *db.Response {
	return &db.Response{
		Columns:       []string{"name", "id"},
		Rows:          [][]any{{"ann", int64(1)}, {"bob", int64(2)}},
		ExecutionTime: 12 * time.Millisecond,
	}
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+QueryPath, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleQuerySuccess(t *testing.T) {
	exec := &stubExecutor{resp: sampleResponse()}
	srv := newTestServer(t, exec)

	resp := post(t, srv.URL, `{"sql":"SELECT name, id FROM users;"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `["name","id"]`, string(raw["columns"]))
	assert.JSONEq(t, `12`, string(raw["executionTimeMs"]))
	assert.JSONEq(t, `2`, string(raw["totalRows"]))
	// row keys keep column order
	assert.True(t, strings.HasPrefix(string(raw["rows"]), `[{"name":"ann","id":1}`), string(raw["rows"]))

	require.Len(t, exec.seen, 1)
	assert.Equal(t, "SELECT name, id FROM users LIMIT 100", exec.seen[0])
}

func TestHandleQueryRejections(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{resp: sampleResponse()})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", `{"sql":"  "}`, "SQL query cannot be empty"},
		{"not select", `{"sql":"SHOW TABLES"}`, "Only SELECT queries are allowed for security reasons."},
		{"forbidden", `{"sql":"SELECT 1; DROP TABLE x"}`, "Forbidden keyword detected: DROP"},
		{"limit too high", `{"sql":"SELECT * FROM t LIMIT 5000"}`, "Query LIMIT exceeds maximum allowed (1000)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var e errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.Equal(t, tt.want, e.Error)
		})
	}
}

func TestHandleQueryBadBody(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	for _, body := range []string{`not json`, `{"sql":"SELECT 1","extra":true}`} {
		resp := post(t, srv.URL, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestHandleQueryDatabaseError(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{err: db.WrapQueryError(errors.New("no such table: nope"))})

	resp := post(t, srv.URL, `{"sql":"SELECT * FROM nope LIMIT 1"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "Database query failed: no such table: nope", e.Error)
}

func TestHandleQueryInternalError(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{err: errors.New("boom")})

	resp := post(t, srv.URL, `{"sql":"SELECT 1 LIMIT 1"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "Internal execution error", e.Error)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDPropagated(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestClientRoundTrip(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{resp: sampleResponse()})
	client := NewClient(srv.URL+"/", nil)

	resp, err := client.Execute(context.Background(), db.Request{Statement: "SELECT name, id FROM users"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, resp.Columns)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "ann", resp.Rows[0][0])
	assert.Equal(t, json.Number("1"), resp.Rows[0][1])
	assert.Equal(t, 12*time.Millisecond, resp.ExecutionTime)
}

func TestClientRemoteError(t *testing.T) {
	srv := newTestServer(t, &stubExecutor{})
	client := NewClient(srv.URL, nil)

	_, err := client.Execute(context.Background(), db.Request{Statement: "SELECT * FROM t LIMIT 5000"})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadRequest, remote.Status)
	assert.Equal(t, "Query LIMIT exceeds maximum allowed (1000)", remote.Message)
}

func TestClientConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).Execute(context.Background(), db.Request{Statement: "SELECT 1"})
	var connErr *db.ConnectionError
	assert.ErrorAs(t, err, &connErr)
}
