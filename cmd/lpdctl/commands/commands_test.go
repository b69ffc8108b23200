package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/ingest"
	"github.com/AngelCh415/lpd-dashboard/internal/metrics"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

var norm = dates.Fixed(time.Date(2024, time.January, 2, 18, 0, 0, 0, time.UTC))

func noDetails(string) (io.ReadCloser, error) { return nil, os.ErrNotExist }

func TestImportCSV(t *testing.T) {
	st := store.NewMemoryStore()
	csv := "Date and Time,Amount,Email address\n01/01/2024 10:00,100,a@x.com\n02/01/2024,50,b@x.com\n"
	n, err := importCSV(context.Background(), st, models.SheetSales, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := st.Read(context.Background(), models.SheetSales)
	require.NoError(t, err)
	assert.Equal(t, []string{"02/01/2024", "50", "b@x.com"}, got.Values(1))

	n, err = importCSV(context.Background(), st, models.SheetSales, strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)
}

const inbox = `<table>
<tr class="message"><td><span class="adr"><span class="rcmContactAddress" title="ana@example.com">Ana</span></span></td>
<td><span class="subject"><a>Hola</a></span></td><td><span class="date">Today 10:15</span></td></tr>
</table>`

func TestParseInboxIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	n, err := parsePage(ctx, st, norm, "inbox", strings.NewReader(inbox), noDetails)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = parsePage(ctx, st, norm, "inbox", strings.NewReader(inbox), noDetails)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestParseOrdersWithDetails(t *testing.T) {
	st := store.NewMemoryStore()
	page := `<table>
	<tr class="iedit"><td class="title">11</td><td class="wpsc_email_address">b@x.com</td><td class="date">Order placed 03-01-2024 at 10:00</td></tr>
	<tr class="iedit"><td class="title">10</td><td class="wpsc_email_address">a@x.com</td><td class="date">Order placed 02-01-2024 at 09:00</td></tr>
	</table>`
	details := func(id string) (io.ReadCloser, error) {
		if id != "10" {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(`<input name="wpsc_total_amount" value="45.00"><div name="wpsc_items_ordered">Intro</div>`)), nil
	}
	n, err := parsePage(context.Background(), st, norm, "orders", strings.NewReader(page), details)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := st.Read(context.Background(), models.SheetWebinar)
	require.NoError(t, err)
	assert.Equal(t, "10", got.Rows[0].Text(models.ColWebinarOrderID))
	assert.Equal(t, "45.00", got.Rows[0].Text(models.ColWebinarAmount))
	assert.Equal(t, "N/A", got.Rows[1].Text(models.ColWebinarItems))
}

func TestParseUnknownKind(t *testing.T) {
	_, err := parsePage(context.Background(), store.NewMemoryStore(), norm, "ads", strings.NewReader(""), noDetails)
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	st := store.NewMemoryStore()
	sales := models.NewTable(models.ColSalesDate, models.ColSalesAmount, models.ColSalesEmail)
	sales.Add("01/01/2024 10:00", "100", "a@x.com")
	sales.Add("not a date", "5", "b@x.com")
	st.Seed(models.SheetSales, sales)

	snap, err := ingest.NewETL(st, norm, nil, nil, nil).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	renderReport(&buf, metrics.Build(snap, 0, 0))
	out := buf.String()
	assert.Contains(t, out, "KPIs")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "insufficient data")
}
