package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

// CSVStore guarda cada hoja como <dir>/<sheet>.csv con cabecera.
type CSVStore struct {
	mu  sync.Mutex
	dir string
}

func NewCSVStore(dir string) (*CSVStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create csv dir: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

func (s *CSVStore) path(sheet models.Sheet) string {
	return filepath.Join(s.dir, string(sheet)+".csv")
}

func (s *CSVStore) Read(_ context.Context, sheet models.Sheet) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(sheet)
}

func (s *CSVStore) load(sheet models.Sheet) (models.Table, error) {
	b, err := os.ReadFile(s.path(sheet))
	if errors.Is(err, os.ErrNotExist) {
		return models.Table{}, nil
	}
	if err != nil {
		return models.Table{}, err
	}
	return ReadCSV(bytes.NewReader(b))
}

// Append reescribe el archivo si aparecen columnas nuevas; si no, solo agrega al final.
func (s *CSVStore) Append(_ context.Context, sheet models.Sheet, in models.Table) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.load(sheet)
	if err != nil {
		return 0, err
	}
	merged := mergeColumns(cur.Columns, in.Columns)
	if len(cur.Columns) == 0 || len(merged) != len(cur.Columns) {
		cur.Columns = merged
		cur.Rows = append(cur.Rows, in.Rows...)
		if err := s.rewrite(sheet, cur); err != nil {
			return 0, err
		}
		return len(in.Rows), nil
	}
	f, err := os.OpenFile(s.path(sheet), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	for _, r := range in.Rows {
		if err := w.Write(rowValues(cur.Columns, r)); err != nil {
			return 0, err
		}
	}
	w.Flush()
	return len(in.Rows), w.Error()
}

func (s *CSVStore) rewrite(sheet models.Sheet, t models.Table) error {
	tmp := s.path(sheet) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(sheet))
}

// ReadCSV interpreta un CSV con cabecera; tolera BOM y filas cortas.
func ReadCSV(r io.Reader) (models.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return models.Table{}, err
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.Table{}, nil
	}
	if err != nil {
		return models.Table{}, err
	}
	t := models.NewTable(headers...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Table{}, err
		}
		t.Add(rec...)
	}
	return t, nil
}

func WriteCSV(w io.Writer, t models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := cw.Write(rowValues(t.Columns, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func rowValues(cols []string, r models.RawRecord) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = r.Get(c).Text()
	}
	return out
}
