package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// queryKeyed runs a keyed SELECT and hands every row to scan.
func queryKeyed(
	ctx context.Context,
	db *sql.DB,
	op string,
	query string,
	args []any,
	scan func(*sql.Rows) error,
) error {
	if db == nil {
		return fmt.Errorf("%s: db is nil", op)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%s: scan rows: %w", op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: row iteration: %w", op, err)
	}
	return nil
}

// upsertAll executes stmt once per argument row inside one transaction.
// Nothing is opened when rows is empty.
func upsertAll(ctx context.Context, db *sql.DB, op string, stmt string, rows [][]any) error {
	if db == nil {
		return fmt.Errorf("%s: db is nil", op)
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: db begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("%s: db prepare: %w", op, err)
	}
	defer prepared.Close()

	for i, args := range rows {
		if _, err := prepared.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%s row=%d: %w", op, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

var errBlankKey = errors.New("empty cache key")

// uniqueKeys trims, drops blanks and de-duplicates while keeping input order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
