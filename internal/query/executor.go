package query

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Result holds the rows returned by one statement.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Open opens the SQLite file at path with gorm's own logging switched off.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Executor runs caller-supplied SQL against the product database.
// Every call opens its own connection and closes it before returning.
// The statement text is executed as given; nothing is validated or parameterised.
type Executor struct {
	path string
}

func NewExecutor(path string) *Executor {
	return &Executor{path: path}
}

// Run executes stmt and returns its rows, or nil if anything failed.
// Failures are logged, never returned.
func (e *Executor) Run(ctx context.Context, stmt string) *Result {
	res, err := e.Query(ctx, stmt)
	if err != nil {
		log.Printf("SQL error: %v", err)
		return nil
	}
	return res
}

// Query executes exactly one statement inside a transaction that is always committed.
// Text with a second statement after the first is refused before the database is opened.
func (e *Executor) Query(ctx context.Context, stmt string) (*Result, error) {
	stmt, err := singleStatement(stmt)
	if err != nil {
		return nil, err
	}
	db, err := Open(e.path)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	defer func(sqlDB *sql.DB) {
		_ = sqlDB.Close()
	}(sqlDB)

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin: %w", tx.Error)
	}
	rows, err := tx.Raw(stmt).Rows()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("execute: %w", err)
	}
	res, err := scanRows(rows)
	_ = rows.Close()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

func scanRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	res := &Result{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return res, nil
}

// FormatRow renders one result row as a single display line.
func FormatRow(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			parts[i] = "NULL"
			continue
		}
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, " | ")
}
