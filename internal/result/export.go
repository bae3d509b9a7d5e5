package result

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ToDelimitedText renders the result as CSV: a header line of column names,
// then one line per row. Missing and nil cells are empty fields. A record
// consisting of a single empty field is written as "" so readers that skip
// blank lines still see it. Line breaks inside values are written as is.
func ToDelimitedText(r *QueryResult) (string, error) {
	if r == nil {
		return "", nil
	}

	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := writeRecord(w, &b, r.Columns); err != nil {
		return "", err
	}

	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, col := range r.Columns {
			record[i] = ""
			if row == nil {
				continue
			}
			if v, ok := row.Get(col); ok {
				record[i] = FormatValue(v)
			}
		}
		if err := writeRecord(w, &b, record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// writeRecord writes one CSV line. encoding/csv renders a lone empty field
// as a blank line, so that case is quoted by hand.
func writeRecord(w *csv.Writer, b *strings.Builder, record []string) error {
	if len(record) == 1 && record[0] == "" {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		b.WriteString("\"\"\n")
		return nil
	}
	return w.Write(record)
}

// FormatValue renders a cell for display and export
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ExportFilename names an export artifact after t, using the ISO-8601 UTC
// form with ':' and '.' replaced by '-'
func ExportFilename(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("query_result_%s.csv", stamp)
}

// Export writes r as CSV into dir and returns the file path
func Export(dir string, r *QueryResult, now time.Time) (string, error) {
	if r.Empty() {
		return "", fmt.Errorf("nothing to export")
	}

	text, err := ToDelimitedText(r)
	if err != nil {
		return "", err
	}

	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ExportFilename(now))
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		return "", err
	}
	return path, nil
}
