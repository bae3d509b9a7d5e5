// Package workbench orchestrates one editing session: it validates the
// statement, dispatches runs, shapes results and records history.
package workbench

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/nhath/ezquery/internal/db"
	"github.com/nhath/ezquery/internal/guardrail"
	"github.com/nhath/ezquery/internal/history"
	"github.com/nhath/ezquery/internal/result"
)

// Session is the state behind one workbench. At most one run is in flight.
type Session struct {
	engine   *guardrail.Engine
	executor db.Executor
	history  *history.Store
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time

	inflight *semaphore.Weighted

	mu        sync.Mutex
	statement string
	result    *result.QueryResult
	lastErr   error
	running   bool
}

// Option configures a Session
type Option func(*Session)

// WithEngine sets the guardrail engine
func WithEngine(e *guardrail.Engine) Option {
	return func(s *Session) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds each execution; zero means no bound
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithClock overrides time.Now for export names
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a session over an executor and history store
func New(executor db.Executor, store *history.Store, opts ...Option) *Session {
	s := &Session{
		engine:   guardrail.New(),
		executor: executor,
		history:  store,
		logger:   zap.NewNop(),
		now:      time.Now,
		inflight: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetStatement replaces the editable statement
func (s *Session) SetStatement(sql string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statement = sql
}

// Statement returns the editable statement
func (s *Session) Statement() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statement
}

// Validation classifies the current statement
func (s *Session) Validation() guardrail.Outcome {
	return s.engine.Classify(s.Statement())
}

// Engine returns the guardrail engine in use
func (s *Session) Engine() *guardrail.Engine {
	return s.engine
}

// Running reports whether a run is in flight
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// CanRun reports whether the run action is enabled
func (s *Session) CanRun() bool {
	return !s.Running() && guardrail.CanRun(s.Validation())
}

// ShortcutAllowed reports whether the keyboard execute path is enabled
func (s *Session) ShortcutAllowed() bool {
	o := s.Validation()
	return !s.Running() && guardrail.CanRun(o) && guardrail.ShortcutAllowed(o)
}

// Result returns the last successful result, or nil
func (s *Session) Result() *result.QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// LastError returns the error from the last run, or nil
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Run validates, rewrites and executes the current statement. A rewritten
// statement replaces the editable text before dispatch, so the text shown,
// sent and recorded is always the same. Guardrail rejections are not
// recorded in history.
func (s *Session) Run(ctx context.Context) (*result.QueryResult, error) {
	if !s.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer s.inflight.Release(1)

	sql := s.Statement()
	outcome := s.engine.Classify(sql)
	if !guardrail.CanRun(outcome) {
		err := &ValidationError{Outcome: outcome}
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	prepared := s.engine.PrepareForExecution(sql)
	s.mu.Lock()
	if prepared.Rewritten {
		s.statement = prepared.Statement
	}
	s.running = true
	s.result = nil
	s.lastErr = nil
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Debug("dispatching statement",
		zap.String("sql", prepared.Statement),
		zap.Bool("rewritten", prepared.Rewritten))

	resp, err := s.executor.Execute(ctx, db.Request{Statement: prepared.Statement})
	if err != nil {
		s.history.Record(prepared.Statement, history.StatusFailure)
		execErr := &ExecutionError{Statement: prepared.Statement, Underlying: err}
		s.logger.Info("statement failed", zap.String("sql", prepared.Statement), zap.Error(err))
		s.finish(nil, execErr)
		return nil, execErr
	}

	res := result.FromResponse(resp)
	s.history.Record(prepared.Statement, history.StatusSuccess)
	s.logger.Info("statement succeeded",
		zap.Int("rows", res.TotalRows),
		zap.Int64("elapsed_ms", res.ExecutionTimeMs()))
	s.finish(res, nil)
	return res, nil
}

// RunShortcut is the keyboard execute path. It refuses statements whose
// validation message flags a security problem even if otherwise runnable.
func (s *Session) RunShortcut(ctx context.Context) (*result.QueryResult, error) {
	if !guardrail.ShortcutAllowed(s.Validation()) {
		return nil, ErrShortcutBlocked
	}
	return s.Run(ctx)
}

func (s *Session) finish(res *result.QueryResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.result = res
	s.lastErr = err
}

// Export writes the current result as CSV into dir
func (s *Session) Export(dir string) (string, error) {
	res := s.Result()
	if res.Empty() {
		return "", ErrNoResult
	}
	path, err := result.Export(dir, res, s.now())
	if err != nil {
		return "", err
	}
	s.logger.Info("result exported", zap.String("path", path), zap.Int("rows", res.TotalRows))
	return path, nil
}

// History returns the query log, most recent first
func (s *Session) History() []history.Entry {
	return s.history.Entries()
}

// ClearHistory empties the query log
func (s *Session) ClearHistory() {
	s.history.Clear()
}

// SelectHistory loads a past statement into the editor
func (s *Session) SelectHistory(id string) bool {
	entry, ok := s.history.Get(id)
	if !ok {
		return false
	}
	s.SetStatement(entry.SQL)
	return true
}
