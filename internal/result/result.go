// Package result turns raw execution responses into display-ready results
// and exports them as CSV.
package result

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/nhath/ezquery/internal/db"
)

// Row maps column name to value, preserving column order
type Row = *orderedmap.OrderedMap[string, any]

// QueryResult is the shaped output of one successful execution.
// It is replaced wholesale by the next run.
type QueryResult struct {
	Columns       []string
	Rows          []Row
	ExecutionTime time.Duration
	TotalRows     int
}

// ExecutionTimeMs returns the elapsed time in milliseconds
func (r *QueryResult) ExecutionTimeMs() int64 {
	return r.ExecutionTime.Milliseconds()
}

// Empty reports whether there is nothing to show or export
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// NewRow builds a row from positional values. Repeated column names keep
// the first position and the last value.
func NewRow(columns []string, values []any) Row {
	row := orderedmap.New[string, any]()
	for i, col := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		row.Set(col, v)
	}
	return row
}

// Shape builds a QueryResult. Columns come from the first row's keys in
// encounter order; values are passed through untouched.
func Shape(rows []Row, elapsed time.Duration) *QueryResult {
	if elapsed < 0 {
		elapsed = 0
	}
	res := &QueryResult{
		Columns:       []string{},
		Rows:          rows,
		ExecutionTime: elapsed,
		TotalRows:     len(rows),
	}
	if len(rows) > 0 && rows[0] != nil {
		for pair := rows[0].Oldest(); pair != nil; pair = pair.Next() {
			res.Columns = append(res.Columns, pair.Key)
		}
	}
	return res
}

// FromResponse shapes a collaborator response
func FromResponse(resp *db.Response) *QueryResult {
	if resp == nil {
		return Shape(nil, 0)
	}
	rows := make([]Row, len(resp.Rows))
	for i, values := range resp.Rows {
		rows[i] = NewRow(resp.Columns, values)
	}
	return Shape(rows, resp.ExecutionTime)
}

// Value returns the cell for column col in row i
func (r *QueryResult) Value(i int, col string) (any, bool) {
	if i < 0 || i >= len(r.Rows) || r.Rows[i] == nil {
		return nil, false
	}
	return r.Rows[i].Get(col)
}
