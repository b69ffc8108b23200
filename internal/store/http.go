package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// HTTPStore lee hojas publicadas como CSV (export de Google Sheets). Es de solo lectura:
// los scrapers escriben directamente en la hoja.
type HTTPStore struct {
	c       HTTPClient
	urls    map[models.Sheet]string
	backoff utils.Backoff
}

func NewHTTPStore(c HTTPClient, urls map[models.Sheet]string) *HTTPStore {
	if c == nil {
		c = NewHTTPClient(15 * time.Second)
	}
	return &HTTPStore{c: c, urls: urls, backoff: utils.NewBackoff(100*time.Millisecond, 2)}
}

// WithBackoff reemplaza la política de reintentos.
func (s *HTTPStore) WithBackoff(b utils.Backoff) *HTTPStore {
	s.backoff = b
	return s
}

func (s *HTTPStore) Read(ctx context.Context, sheet models.Sheet) (models.Table, error) {
	url := s.urls[sheet]
	if url == "" {
		return models.Table{}, apperr.Configuration(fmt.Sprintf("no published url for sheet %q", sheet))
	}
	var t models.Table
	err := s.backoff.Do(ctx, func(int) error {
		var err error
		t, err = getCSV(ctx, s.c, url)
		return err
	})
	if err != nil {
		return models.Table{}, apperr.Upstream(fmt.Sprintf("sheet %s", sheet), err)
	}
	return t, nil
}

func (s *HTTPStore) Append(context.Context, models.Sheet, models.Table) (int, error) {
	return 0, apperr.Configuration("http store is read only")
}

func getCSV(ctx context.Context, c HTTPClient, url string) (models.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Table{}, utils.Permanent(err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return models.Table{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return models.Table{}, utils.Permanent(err)
		}
		return models.Table{}, err
	}
	return ReadCSV(resp.Body)
}
