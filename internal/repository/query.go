package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QueryResult holds a passthrough query's output with every value rendered
// as text.
type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// RunQuery executes a single read-only SELECT against the store and
// stringifies the result. Anything else is rejected before touching the
// database.
func (d *Database) RunQuery(ctx context.Context, query string) (*QueryResult, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if trimmed == "" {
		return nil, fmt.Errorf("empty query")
	}
	if strings.ContainsRune(trimmed, ';') {
		return nil, fmt.Errorf("only a single statement is allowed")
	}
	if !strings.HasPrefix(strings.ToLower(trimmed), "select") {
		return nil, fmt.Errorf("only SELECT queries are allowed")
	}

	rows, err := d.DB.WithContext(ctx).Raw(trimmed).Rows()
	if err != nil {
		return nil, storagef(err, "query %q", trimmed)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, storagef(err, "query %q", trimmed)
	}

	res := &QueryResult{Columns: cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, storagef(err, "scan %q", trimmed)
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			} else {
				row[i] = "NULL"
			}
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storagef(err, "query %q", trimmed)
	}
	return res, nil
}
