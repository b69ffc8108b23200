package scrape

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

// martes 2 de enero de 2024
var norm = dates.Fixed(time.Date(2024, time.January, 2, 18, 0, 0, 0, time.UTC))

func TestNewEmailRows(t *testing.T) {
	existing := models.NewTable(EmailColumns...)
	existing.Add("Tue 07:46", "old@example.com", "visto")
	existing.Add("02/01/2024 09:00", "x@example.com", "último")

	inbox, err := ParseInbox(strings.NewReader(inboxHTML))
	require.NoError(t, err)
	// "Today 10:15" es posterior a la última fila; "Tue 07:46" es anterior y además repetido
	got, skipped := NewEmailRows(norm, existing, inbox)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"Today 10:15", "ana@example.com", "Webinar question"}, got.Values(0))
	assert.Equal(t, 1, skipped)
}

func TestNewOrdersStopsAtLastKnown(t *testing.T) {
	page, err := ParseOrders(strings.NewReader(ordersHTML))
	require.NoError(t, err)

	existing := models.NewTable(OrderColumns...)
	existing.Add("1050", "", "", "", "", "", "", "")
	fresh := NewOrders(existing, page)
	require.Len(t, fresh, 2)
	assert.Equal(t, "1051", fresh[0].ID)
	assert.Equal(t, "1052", fresh[1].ID)

	assert.Len(t, NewOrders(models.Table{}, page), 3)

	tbl := OrdersTable(fresh, map[string]OrderDetail{"1052": {Items: "Webinar", Amount: "£45.00"}})
	assert.Equal(t, OrderColumns, tbl.Columns)
	assert.Equal(t, "N/A", tbl.Rows[0].Text(models.ColWebinarItems))
	assert.Equal(t, "£45.00", tbl.Rows[1].Text(models.ColWebinarAmount))
	assert.Equal(t, "Order placed 03-02-2024 at 14:30", tbl.Rows[1].Text(models.ColWebinarDate))
}

func TestNewPosts(t *testing.T) {
	posts, err := ParseTimeline(strings.NewReader(timelineHTML))
	require.NoError(t, err)

	all := NewPosts(norm, models.Table{}, posts)
	require.Equal(t, 2, all.Len())
	row := all.Rows[0]
	assert.Equal(t, "01/01/2024", row.Text(models.ColSocialDate))
	assert.Equal(t, "linkedin", row.Text(models.ColSocialPlatform))
	assert.Equal(t, "12", row.Text(models.ColSocialLikes))
	assert.Equal(t, "4", row.Text(models.ColSocialClicks))
	assert.Equal(t, "316", row.Text(models.ColSocialScore))

	existing := models.NewTable(SocialColumns...)
	existing.Add("01/01/2024")
	fresh := NewPosts(norm, existing, posts)
	require.Equal(t, 1, fresh.Len())
	assert.Equal(t, "02/01/2024", fresh.Rows[0].Text(models.ColSocialDate))
	assert.Equal(t, "facebook", fresh.Rows[0].Text(models.ColSocialPlatform))
}
