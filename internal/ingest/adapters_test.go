package ingest

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/series"
)

// martes 2 de enero de 2024
var today = time.Date(2024, time.January, 2, 12, 0, 0, 0, time.UTC)

func newAdapter() *Adapter { return NewAdapter(dates.Fixed(today), nil) }

func socialTable() models.Table {
	return models.NewTable(models.ColSocialDate, models.ColSocialPlatform, models.ColSocialLikes,
		models.ColSocialComments, models.ColSocialImpressions, models.ColSocialShares, models.ColSocialClicks)
}

func TestSalesMonthlyTotal(t *testing.T) {
	tbl := models.NewTable(models.ColSalesDate, models.ColSalesAmount)
	tbl.Add("01/01/2024 10:00", "100")
	tbl.Add("15/01/2024 10:00", "50")

	got, err := newAdapter().Sales(tbl)
	require.NoError(t, err)
	require.Len(t, got.Records, 2)

	monthly := series.Aggregate(SalesObservations(got.Records), series.Month)
	require.Len(t, monthly, 1)
	assert.Equal(t, series.Bucket{Year: 2024, Month: time.January}, monthly[0].Bucket)
	assert.Equal(t, 150.0, monthly[0].Value)
}

func TestSocialYesterdayAndSimpleScore(t *testing.T) {
	tbl := socialTable()
	tbl.Add("Yesterday, 1 January", "Facebook", "", "no data available", "5", "2", "1")

	got, err := newAdapter().Social(tbl)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	p := got.Records[0]
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), p.Date.Time)
	assert.Equal(t, 8.0, p.Engagement)
	assert.Equal(t, "facebook", p.Platform)
}

func TestSocialAdapterIsIdempotent(t *testing.T) {
	tbl := socialTable()
	tbl.Add("Monday, 1 January", "Instagram", "3", "1", "1.2K", "0", "4%")
	tbl.Add("not a date", "Instagram", "3", "1", "10", "0", "4")

	a, errA := newAdapter().Social(tbl)
	b, errB := newAdapter().Social(tbl)
	require.NoError(t, errA)
	require.NoError(t, errB)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, 1200.0, a.Records[0].Impressions)
	assert.Equal(t, 1, a.DroppedCount())
}

func TestWebinarLooseTimestamp(t *testing.T) {
	tbl := models.NewTable(models.ColWebinarDate, models.ColWebinarAmount, models.ColWebinarEmail)
	tbl.Add("Order placed 03-02-2024 at 14:30 GMT", "£1,250.00", " Buyer@Example.com ")

	got, err := newAdapter().Webinar(tbl)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	w := got.Records[0]
	assert.Equal(t, time.Date(2024, time.February, 3, 14, 30, 0, 0, time.UTC), w.Date.Time)
	assert.True(t, w.Date.HasTime)
	assert.Equal(t, 1250.0, w.TotalAmount)
	assert.Equal(t, "buyer@example.com", w.Email)
}

func TestEmptySourcesYieldEmptyResults(t *testing.T) {
	a := newAdapter()
	sales, err := a.Sales(models.Table{})
	require.NoError(t, err)
	assert.Empty(t, sales.Records)

	headerOnly := models.NewTable(models.ColEmailDate, models.ColEmailSender)
	emails, err := a.Email(headerOnly)
	require.NoError(t, err)
	assert.Empty(t, emails.Records)
	assert.Zero(t, emails.DroppedCount())
}

func TestMissingRequiredColumn(t *testing.T) {
	tbl := models.NewTable("Fecha", models.ColSalesAmount)
	tbl.Add("01/01/2024", "10")

	_, err := newAdapter().Sales(tbl)
	require.Error(t, err)
	assert.Equal(t, apperr.CategoryStructure, apperr.CategoryOf(err))
	assert.Equal(t, 422, apperr.Status(err))
	assert.Contains(t, err.Error(), models.ColSalesDate)
}

func TestNonNumericAmountCountsAsZero(t *testing.T) {
	tbl := models.NewTable(models.ColSalesDate, models.ColSalesAmount)
	tbl.Add("01/01/2024", "N/A")
	tbl.Add("02/01/2024", "")

	got, err := newAdapter().Sales(tbl)
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, 0.0, got.Records[0].Amount)
	assert.False(t, got.Records[0].AmountOK)
	assert.Equal(t, "N/A", got.Records[0].AmountText)
}

func TestDroppedRowsCarryReason(t *testing.T) {
	tbl := models.NewTable(models.ColSalesDate, models.ColSalesAmount)
	tbl.Add("", "1")
	tbl.Add("31/04/2024", "1")
	tbl.Add("sometime soon", "1")
	tbl.Add("01/05/2024", "1")

	got, err := newAdapter().Sales(tbl)
	require.NoError(t, err)
	assert.Len(t, got.Records, 1)
	assert.Equal(t, map[string]int{"empty": 1, "malformed": 1, "unsupported_format": 1}, got.DroppedByReason())
	assert.Equal(t, 2, got.Dropped[2].Row)
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   models.Cell
		want float64
		ok   bool
	}{
		{models.Num(12.5), 12.5, true},
		{models.Str("£1,234.50"), 1234.5, true},
		{models.Str("$ 20"), 20, true},
		{models.Str("3.5%"), 3.5, true},
		{models.Str("1.2K"), 1200, true},
		{models.Str("2M"), 2e6, true},
		{models.Str("NaN"), 0, false},
		{models.Str("abc"), 0, false},
		{models.Empty, 0, false},
	}
	for _, c := range cases {
		got, ok := ToFloat(c.in)
		assert.Equal(t, c.ok, ok, c.in.Text())
		assert.InDelta(t, c.want, got, 1e-9, c.in.Text())
	}
}

func TestWeightedEngagement(t *testing.T) {
	p := Post{Platform: "facebook", Likes: 10, Comments: 2, Impressions: 2000}
	// 0.2*2 + 0.5*2 + 0.3*10 + 3*0.5
	assert.InDelta(t, 5.9, WeightedEngagement(p, DefaultPlatformWeights()), 1e-9)

	p.Platform = "mastodon"
	assert.InDelta(t, 1.5, WeightedEngagement(p, DefaultPlatformWeights()), 1e-9)

	assert.Equal(t, 0.0, WeightedEngagement(Post{Platform: "twitter"}, DefaultPlatformWeights()))

	w := DefaultPlatformWeights().Merge(map[string]Weights{"Mastodon": {Likes: 1}})
	assert.InDelta(t, 11.5, WeightedEngagement(p, w), 1e-9)
}

func TestSimpleEngagementIgnoresLikes(t *testing.T) {
	assert.Equal(t, 6.0, SimpleEngagement(Post{Likes: 100, Comments: 1, Impressions: 2, Shares: 1, Clicks: 2}))
}
