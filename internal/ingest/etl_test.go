package ingest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/monitoring"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestETLRunCollectsPerSourceErrors(t *testing.T) {
	st := store.NewMemoryStore()
	sales := models.NewTable(models.ColSalesDate, models.ColSalesAmount)
	sales.Add("01/01/2024", "100")
	sales.Add("garbage", "5")
	st.Seed(models.SheetSales, sales)

	// a webinar le falta la columna de importe
	webinar := models.NewTable(models.ColWebinarDate)
	webinar.Add("2024-01-05 10:00")
	st.Seed(models.SheetWebinar, webinar)

	social := socialTable()
	social.Add("Today", "LinkedIn", "1", "1", "100", "0", "0")
	st.Seed(models.SheetSocial, social)

	mon := monitoring.New(prometheus.NewRegistry())
	etl := NewETL(st, dates.Fixed(today), discard(), mon, nil)
	snap, err := etl.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Sales.Records, 1)
	assert.Len(t, snap.Social.Records, 1)
	assert.Empty(t, snap.Email.Records)
	require.Contains(t, snap.Errors, models.SheetWebinar)
	assert.NotContains(t, snap.Errors, models.SheetSales)

	d := snap.Diagnostics()
	assert.Equal(t, 2, d[models.SheetSales].Rows)
	assert.Equal(t, 1, d[models.SheetSales].Kept)
	assert.Equal(t, 1, d[models.SheetSales].Dropped["unsupported_format"])
	assert.NotEmpty(t, d[models.SheetWebinar].Error)

	assert.Equal(t, 2.0, testutil.ToFloat64(mon.RowsRead.WithLabelValues("sales")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mon.RowsDropped.WithLabelValues("sales", "unsupported_format")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mon.SourceErrors.WithLabelValues("webinar")))
}

func TestETLRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewETL(store.NewMemoryStore(), dates.Fixed(today), discard(), nil, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
