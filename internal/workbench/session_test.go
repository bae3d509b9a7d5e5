package workbench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhath/ezquery/internal/db"
	"github.com/nhath/ezquery/internal/guardrail"
	"github.com/nhath/ezquery/internal/history"
)

func TestMain(m *testing.M) {
	// keyring's D-Bus backend starts a reader goroutine during package init
	goleak.VerifyTestMain(m,
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("github.com/godbus/dbus.(*Conn).inWorker"),
	)
}

// fakeExecutor records every request and replies from a canned function
type fakeExecutor struct {
	mu       sync.Mutex
	requests []db.Request
	reply    func(ctx context.Context, req db.Request) (*db.Response, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, req db.Request) (*db.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.reply == nil {
		return &db.Response{
			Columns:       []string{"id", "name"},
			Rows:          [][]any{{int64(1), "ann"}, {int64(2), "bob"}},
			ExecutionTime: 3 * time.Millisecond,
		}, nil
	}
	return f.reply(ctx, req)
}

func (f *fakeExecutor) calls() []db.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]db.Request(nil), f.requests...)
}

func newSession(exec db.Executor, opts ...Option) *Session {
	return New(exec, history.NewStore(history.NewMemoryBlobStore()), opts...)
}

func TestRunRewritesAndRecords(t *testing.T) {
	exec := &fakeExecutor{}
	s := newSession(exec)
	s.SetStatement("SELECT id, name FROM users")

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	want := "SELECT id, name FROM users\nLIMIT 100"
	assert.Equal(t, want, s.Statement(), "rewrite is reflected into the editor")
	require.Len(t, exec.calls(), 1)
	assert.Equal(t, want, exec.calls()[0].Statement)

	assert.Equal(t, []string{"id", "name"}, res.Columns)
	assert.Equal(t, 2, res.TotalRows)
	assert.Same(t, res, s.Result())

	entries := s.History()
	require.Len(t, entries, 1)
	assert.Equal(t, want, entries[0].SQL)
	assert.Equal(t, history.StatusSuccess, entries[0].Status)
}

func TestRunValidationErrorSkipsExecutorAndHistory(t *testing.T) {
	exec := &fakeExecutor{}
	s := newSession(exec)

	for _, sql := range []string{"", "DROP TABLE users", "SHOW TABLES"} {
		s.SetStatement(sql)
		_, err := s.Run(context.Background())

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, guardrail.SeverityError, vErr.Outcome.Severity)
		assert.Equal(t, err, s.LastError())
	}

	assert.Empty(t, exec.calls())
	assert.Empty(t, s.History())
}

func TestRunExecutionErrorRecordsFailure(t *testing.T) {
	exec := &fakeExecutor{reply: func(context.Context, db.Request) (*db.Response, error) {
		return nil, db.WrapQueryError(errors.New("no such table: nope"))
	}}
	s := newSession(exec)
	s.SetStatement("SELECT * FROM nope LIMIT 5")

	_, err := s.Run(context.Background())
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, err.Error(), "no such table")
	assert.Nil(t, s.Result())

	entries := s.History()
	require.Len(t, entries, 1)
	assert.Equal(t, history.StatusFailure, entries[0].Status)
	assert.Equal(t, "SELECT * FROM nope LIMIT 5", entries[0].SQL)
}

func TestRunSingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	exec := &fakeExecutor{reply: func(context.Context, db.Request) (*db.Response, error) {
		close(started)
		<-release
		return &db.Response{}, nil
	}}
	s := newSession(exec)
	s.SetStatement("SELECT 1 LIMIT 1")

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background())
		done <- err
	}()

	<-started
	assert.True(t, s.Running())
	assert.False(t, s.CanRun())
	assert.False(t, s.ShortcutAllowed())

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Running())
	assert.True(t, s.CanRun())
	assert.Len(t, exec.calls(), 1)
}

func TestRunTimeout(t *testing.T) {
	exec := &fakeExecutor{reply: func(ctx context.Context, _ db.Request) (*db.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s := newSession(exec, WithTimeout(10*time.Millisecond))
	s.SetStatement("SELECT 1 LIMIT 1")

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, history.StatusFailure, s.History()[0].Status)
}

func TestRunShortcut(t *testing.T) {
	exec := &fakeExecutor{}
	s := newSession(exec)

	s.SetStatement("SELECT created_at FROM t")
	_, err := s.RunShortcut(context.Background())
	assert.ErrorIs(t, err, ErrShortcutBlocked)
	assert.False(t, s.ShortcutAllowed())

	s.SetStatement("SELECT 1 LIMIT 1")
	assert.True(t, s.ShortcutAllowed())
	_, err = s.RunShortcut(context.Background())
	require.NoError(t, err)
	assert.Len(t, exec.calls(), 1)
}

func TestRepeatedRunMovesHistoryToFront(t *testing.T) {
	s := newSession(&fakeExecutor{})

	for _, sql := range []string{"SELECT 1 LIMIT 1", "SELECT 2 LIMIT 1", "SELECT 1 LIMIT 1"} {
		s.SetStatement(sql)
		_, err := s.Run(context.Background())
		require.NoError(t, err)
	}

	entries := s.History()
	require.Len(t, entries, 2)
	assert.Equal(t, "SELECT 1 LIMIT 1", entries[0].SQL)
}

func TestSelectHistoryAndClear(t *testing.T) {
	s := newSession(&fakeExecutor{})
	s.SetStatement("SELECT 1 LIMIT 1")
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	id := s.History()[0].ID
	s.SetStatement("")
	assert.True(t, s.SelectHistory(id))
	assert.Equal(t, "SELECT 1 LIMIT 1", s.Statement())
	assert.False(t, s.SelectHistory("missing"))

	s.ClearHistory()
	assert.Empty(t, s.History())
}

func TestExport(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	s := newSession(&fakeExecutor{}, WithClock(func() time.Time { return now }))
	dir := t.TempDir()

	_, err := s.Export(dir)
	assert.ErrorIs(t, err, ErrNoResult)

	s.SetStatement("SELECT 1 LIMIT 1")
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	path, err := s.Export(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "query_result_2024-03-09T14-05-07-000Z.csv"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,ann\n2,bob\n", string(b))
}

func TestCustomEngine(t *testing.T) {
	exec := &fakeExecutor{}
	s := newSession(exec, WithEngine(guardrail.New(guardrail.WithDefaultLimit(7))))
	s.SetStatement("SELECT * FROM t")
	assert.Contains(t, s.Validation().Message, "LIMIT 7")

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t\nLIMIT 7", exec.calls()[0].Statement)
	assert.Equal(t, 7, s.Engine().DefaultLimit())
}
