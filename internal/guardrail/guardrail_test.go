package guardrail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		valid    bool
		severity Severity
		contains string
	}{
		{"empty", "", false, SeverityError, "Query cannot be empty"},
		{"whitespace", "   \n\t", false, SeverityError, "Query cannot be empty"},
		{"delete", "DELETE FROM users", false, SeverityError, `"DELETE"`},
		{"lowercase drop", "drop table users", false, SeverityError, `"DROP"`},
		{"keyword inside identifier", "update_count SELECT * FROM t", false, SeverityError, `"UPDATE"`},
		{"created_at column", "SELECT created_at FROM t WHERE id = 1 LIMIT 1", false, SeverityError, `"CREATE"`},
		{"first keyword in list order wins", "SELECT 1 -- create then insert", false, SeverityError, `"INSERT"`},
		{"not select", "SHOW TABLES", false, SeverityError, "Only SELECT statements are permitted."},
		{"with clause", "WITH x AS (SELECT 1) SELECT * FROM x", false, SeverityError, "Only SELECT"},
		{"missing limit", "SELECT * FROM users", true, SeverityWarning, "100"},
		{"full scan", "SELECT * FROM users LIMIT 10", true, SeverityWarning, "Full table scan"},
		{"ready", "SELECT id, name FROM users WHERE active = 1 LIMIT 10", true, SeverityInfo, "Ready to execute."},
		{"long without where", "SELECT id, name, email, phone, address FROM customers LIMIT 10", true, SeverityInfo, "Ready to execute."},
		{"leading whitespace", "   select 1 limit 1 ", true, SeverityWarning, "Full table scan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.sql)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.severity, got.Severity)
			assert.Contains(t, got.Message, tt.contains)
		})
	}
}

func TestClassifyErrorImpliesInvalid(t *testing.T) {
	inputs := []string{
		"", "x", "SELECT 1", "SELECT 1 LIMIT 1", "insert into t values (1)",
		"SELECT a FROM b WHERE c LIMIT 2", "grant all", "revoke all",
	}
	for _, in := range inputs {
		o := Classify(in)
		if o.Severity == SeverityError {
			assert.False(t, o.Valid, in)
		} else {
			assert.True(t, o.Valid, in)
		}
	}
}

func TestClassifyForbiddenAnywhere(t *testing.T) {
	for _, kw := range ForbiddenKeywords {
		for _, sql := range []string{
			"SELECT * FROM t WHERE note = '" + strings.ToLower(kw) + "' LIMIT 5",
			strings.ToLower(kw) + " something",
			"SELECT " + kw + "_col FROM t",
		} {
			o := Classify(sql)
			require.Equal(t, SeverityError, o.Severity, sql)
			assert.Contains(t, o.Message, "Security", sql)
		}
	}
}

func TestCustomDefaultLimit(t *testing.T) {
	e := New(WithDefaultLimit(25))
	assert.Equal(t, 25, e.DefaultLimit())
	assert.Contains(t, e.Classify("SELECT * FROM t").Message, "LIMIT 25")
	assert.Equal(t, "SELECT * FROM t\nLIMIT 25", e.PrepareForExecution("SELECT * FROM t").Statement)

	assert.Equal(t, DefaultLimit, New(WithDefaultLimit(0)).DefaultLimit())
}

func TestPrepareForExecution(t *testing.T) {
	got := PrepareForExecution("SELECT * FROM t")
	assert.Equal(t, Prepared{Statement: "SELECT * FROM t\nLIMIT 100", Rewritten: true}, got)

	got = PrepareForExecution("SELECT * FROM t LIMIT 5")
	assert.Equal(t, Prepared{Statement: "SELECT * FROM t LIMIT 5"}, got)

	got = PrepareForExecution("  SELECT * FROM t  \n")
	assert.Equal(t, "SELECT * FROM t\nLIMIT 100", got.Statement)
	assert.True(t, got.Rewritten)

	// lower-case limit counts
	assert.False(t, PrepareForExecution("select 1 limit 3").Rewritten)
}

func TestGating(t *testing.T) {
	assert.False(t, CanRun(Classify("")))
	assert.False(t, CanRun(Classify("DROP TABLE t")))
	assert.True(t, CanRun(Classify("SELECT * FROM t")))
	assert.True(t, CanRun(Classify("SELECT a FROM t WHERE b = 1 LIMIT 1")))

	assert.False(t, ShortcutAllowed(Classify("SELECT created_at FROM t")))
	assert.True(t, ShortcutAllowed(Classify("SELECT * FROM t")))

	// shortcut path rejects a security message even when Valid is set
	forged := Outcome{Valid: true, Severity: SeverityError, Message: `Security Risk: "DROP" is not allowed. Read-only mode.`}
	assert.False(t, ShortcutAllowed(forged))
	assert.False(t, CanRun(forged))
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "none", SeverityNone.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
}
