package db

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// MaxLimit is the authoritative row ceiling
	MaxLimit = 1000
	// DefaultLimit is appended when a statement has no LIMIT
	DefaultLimit = 100
)

// forbiddenKeywords mirrors the client list plus EXEC
var forbiddenKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "TRUNCATE", "GRANT", "REVOKE", "CREATE", "EXEC",
}

var limitPattern = regexp.MustCompile(`(?i)LIMIT\s+(\d+)`)

// Request asks the collaborator to run exactly one statement
type Request struct {
	Statement string `json:"sql"`
}

// Response is a successful execution
type Response struct {
	Columns       []string
	Rows          [][]any
	ExecutionTime time.Duration
}

// ExecutionTimeMs returns the elapsed time in milliseconds
func (r *Response) ExecutionTimeMs() int64 {
	return r.ExecutionTime.Milliseconds()
}

// Executor runs statements on behalf of the workbench
type Executor interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

// Sanitize applies the read-only rules and returns the statement to run.
// A missing LIMIT gets defaultLimit appended after any trailing semicolon is
// dropped; a LIMIT above maxLimit is rejected.
func Sanitize(statement string, defaultLimit, maxLimit int) (string, error) {
	trimmed := strings.TrimSpace(statement)
	if trimmed == "" {
		return "", ErrEmptyStatement
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") {
		return "", &ReadOnlyError{}
	}
	for _, kw := range forbiddenKeywords {
		if strings.Contains(upper, kw) {
			return "", &ReadOnlyError{Keyword: kw}
		}
	}

	if m := limitPattern.FindStringSubmatch(trimmed); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxLimit {
			return "", &LimitError{Requested: n, Max: maxLimit}
		}
		return trimmed, nil
	}

	trimmed = strings.TrimSuffix(trimmed, ";")
	return fmt.Sprintf("%s LIMIT %d", trimmed, defaultLimit), nil
}

// Service is the local execution collaborator: it guards statements and
// runs them read-only through a Driver
type Service struct {
	driver       Driver
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithLimits overrides the default and maximum row limits
func WithLimits(defaultLimit, maxLimit int) ServiceOption {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// WithServiceLogger sets the logger
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wraps a connected driver
func NewService(driver Driver, opts ...ServiceOption) *Service {
	s := &Service{
		driver:       driver,
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute implements Executor
func (s *Service) Execute(ctx context.Context, req Request) (*Response, error) {
	statement, err := Sanitize(req.Statement, s.defaultLimit, s.maxLimit)
	if err != nil {
		s.logger.Info("statement rejected", zap.String("sql", req.Statement), zap.Error(err))
		return nil, err
	}

	resp, err := s.driver.Query(ctx, statement, s.maxLimit)
	if err != nil {
		s.logger.Warn("statement failed", zap.String("sql", statement), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("statement executed",
		zap.String("sql", statement),
		zap.Int("rows", len(resp.Rows)),
		zap.Duration("elapsed", resp.ExecutionTime))
	return resp, nil
}

// Driver returns the wrapped driver
func (s *Service) Driver() Driver {
	return s.driver
}
