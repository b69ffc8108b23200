// Package store agrupa los backends del almacén tabular. Cada hoja (ventas, webinar, social,
// correo) es una tabla de solo-anexar; el núcleo la lee completa en cada pasada.
package store

import (
	"context"
	"fmt"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

type Store interface {
	// Read devuelve la hoja completa; una hoja inexistente es una tabla vacía.
	Read(ctx context.Context, sheet models.Sheet) (models.Table, error)
	// Append agrega filas al final y devuelve cuántas se escribieron.
	Append(ctx context.Context, sheet models.Sheet, rows models.Table) (int, error)
}

// Open elige el backend por nombre ("memory", "sqlite", "csv", "http").
func Open(kind string, opts Options) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "csv":
		s, err := NewCSVStore(opts.CSVDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "http":
		return NewHTTPStore(opts.Client, opts.SheetURLs), nil
	}
	return nil, apperr.Configuration(fmt.Sprintf("unknown store %q", kind))
}

type Options struct {
	SQLitePath string
	CSVDir     string
	SheetURLs  map[models.Sheet]string
	Client     HTTPClient
}

// mergeColumns agrega a dst las columnas de src que falten, respetando el orden.
func mergeColumns(dst, src []string) []string {
	have := make(map[string]struct{}, len(dst))
	for _, c := range dst {
		have[c] = struct{}{}
	}
	out := append([]string(nil), dst...)
	for _, c := range src {
		if _, ok := have[c]; !ok {
			out = append(out, c)
			have[c] = struct{}{}
		}
	}
	return out
}

func cloneTable(t models.Table) models.Table {
	out := models.Table{Columns: append([]string(nil), t.Columns...), Rows: make([]models.RawRecord, 0, len(t.Rows))}
	for _, r := range t.Rows {
		cp := make(models.RawRecord, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows = append(out.Rows, cp)
	}
	return out
}
