package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

// SQLiteStore guarda cada fila como JSON de celdas; la cabecera vive aparte para conservar el orden.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sheet_columns (
	sheet TEXT NOT NULL,
	pos   INTEGER NOT NULL,
	name  TEXT NOT NULL,
	PRIMARY KEY (sheet, pos)
);
CREATE TABLE IF NOT EXISTS sheet_rows (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	sheet TEXT NOT NULL,
	cells TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sheet_rows_sheet ON sheet_rows(sheet, id);
`

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// :memory: es por conexión
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) columns(ctx context.Context, q interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}, sheet models.Sheet) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM sheet_columns WHERE sheet = ? ORDER BY pos`, string(sheet))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *SQLiteStore) Read(ctx context.Context, sheet models.Sheet) (models.Table, error) {
	cols, err := s.columns(ctx, s.db, sheet)
	if err != nil {
		return models.Table{}, fmt.Errorf("read %s columns: %w", sheet, err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id`, string(sheet))
	if err != nil {
		return models.Table{}, fmt.Errorf("read %s rows: %w", sheet, err)
	}
	defer rows.Close()
	t := models.Table{Columns: cols}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return models.Table{}, err
		}
		rec := models.RawRecord{}
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return models.Table{}, fmt.Errorf("decode %s row: %w", sheet, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, sheet models.Sheet, in models.Table) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	have, err := s.columns(ctx, tx, sheet)
	if err != nil {
		return 0, err
	}
	merged := mergeColumns(have, in.Columns)
	for i := len(have); i < len(merged); i++ {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_columns (sheet, pos, name) VALUES (?, ?, ?)`, string(sheet), i, merged[i]); err != nil {
			return 0, fmt.Errorf("add column %q: %w", merged[i], err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, r := range in.Rows {
		b, err := json.Marshal(r)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, string(sheet), string(b)); err != nil {
			return 0, fmt.Errorf("insert %s row: %w", sheet, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(in.Rows), nil
}
