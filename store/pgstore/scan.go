package pgstore

import (
	"database/sql"
	"fmt"

	"github.com/lazyrest/lazyrest/store"
)

// scanRows scans all rows into records, normalizing []byte values to
// strings so JSON rendering stays readable.
func scanRows(rows *sql.Rows) ([]store.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var results []store.Record
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", convertError(err))
		}

		rec := make(store.Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", convertError(err))
	}
	return results, nil
}
