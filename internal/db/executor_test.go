package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		err  any
	}{
		{"appends default", "SELECT * FROM t", "SELECT * FROM t LIMIT 100", nil},
		{"drops trailing semicolon", "SELECT * FROM t;", "SELECT * FROM t LIMIT 100", nil},
		{"keeps limit", "SELECT * FROM t\nLIMIT 100", "SELECT * FROM t\nLIMIT 100", nil},
		{"max allowed", "select * from t limit 1000", "select * from t limit 1000", nil},
		{"over max", "SELECT * FROM t LIMIT 1001", "", &LimitError{}},
		{"empty", "  ", "", ErrEmptyStatement},
		{"not select", "SHOW TABLES", "", &ReadOnlyError{}},
		{"exec", "SELECT 1; EXEC sp_who", "", &ReadOnlyError{}},
		{"insert", "SELECT 1; INSERT INTO t VALUES (1)", "", &ReadOnlyError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.in, DefaultLimit, MaxLimit)
			switch want := tt.err.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case *LimitError:
				assert.ErrorAs(t, err, &want)
				assert.Equal(t, MaxLimit, want.Max)
			case *ReadOnlyError:
				assert.ErrorAs(t, err, &want)
			case error:
				assert.ErrorIs(t, err, want)
			}
			if err != nil {
				assert.True(t, IsRejection(err))
			}
		})
	}
}

func TestReadOnlyErrorMessages(t *testing.T) {
	assert.Equal(t, "Only SELECT queries are allowed for security reasons.", (&ReadOnlyError{}).Error())
	assert.Equal(t, "Forbidden keyword detected: EXEC", (&ReadOnlyError{Keyword: "EXEC"}).Error())
	assert.Equal(t, "Query LIMIT exceeds maximum allowed (1000)", (&LimitError{Requested: 5000, Max: 1000}).Error())
}

func TestServiceExecute(t *testing.T) {
	d := connectSQLite(t, seedDatabase(t, 150))
	svc := NewService(d)
	ctx := context.Background()

	resp, err := svc.Execute(ctx, Request{Statement: "SELECT id FROM users"})
	require.NoError(t, err)
	assert.Len(t, resp.Rows, DefaultLimit)
	assert.GreaterOrEqual(t, resp.ExecutionTimeMs(), int64(0))

	resp, err = svc.Execute(ctx, Request{Statement: "SELECT id FROM users LIMIT 120"})
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 120)

	_, err = svc.Execute(ctx, Request{Statement: "SELECT id FROM users LIMIT 5000"})
	assert.True(t, IsRejection(err))

	_, err = svc.Execute(ctx, Request{Statement: "SELECT * FROM nope"})
	require.Error(t, err)
	assert.False(t, IsRejection(err))
	var qErr *QueryError
	assert.True(t, errors.As(err, &qErr))
}

func TestServiceCustomLimits(t *testing.T) {
	d := connectSQLite(t, seedDatabase(t, 30))
	svc := NewService(d, WithLimits(5, 10))

	resp, err := svc.Execute(context.Background(), Request{Statement: "SELECT id FROM users"})
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 5)

	_, err = svc.Execute(context.Background(), Request{Statement: "SELECT id FROM users LIMIT 11"})
	var le *LimitError
	assert.ErrorAs(t, err, &le)
	assert.Same(t, Driver(d), svc.Driver())
}
