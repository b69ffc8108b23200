package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

func emailRows(dates ...string) []models.RawRecord {
	out := make([]models.RawRecord, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.RawRecord{models.ColEmailDate: models.Str(d), models.ColEmailSubject: models.Str("hola")})
	}
	return out
}

func TestNewEmailsDedupesByLiteralDate(t *testing.T) {
	existing := models.NewTable(models.ColEmailDate, models.ColEmailSubject)
	existing.Add("Tue 07:46", "viejo")

	fresh, skipped := NewEmails(dates.Fixed(today), existing, emailRows(" Tue 07:46", "Wed 09:00", "Wed 09:00"), time.Time{})
	require.Len(t, fresh, 1)
	assert.Equal(t, "Wed 09:00", fresh[0].Text(models.ColEmailDate))
	assert.Equal(t, 2, skipped)
}

func TestNewEmailsOnlyAfterLastDate(t *testing.T) {
	since := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	fresh, skipped := NewEmails(dates.Fixed(today), models.Table{}, emailRows("Mon 10:00", "Today 13:00", "Yesterday 18:30"), since)
	require.Len(t, fresh, 2)
	assert.Equal(t, "Today 13:00", fresh[0].Text(models.ColEmailDate))
	assert.Equal(t, "Yesterday 18:30", fresh[1].Text(models.ColEmailDate))
	assert.Equal(t, 1, skipped)
}

func TestLastEmailDate(t *testing.T) {
	n := dates.Fixed(today)
	_, ok := LastEmailDate(n, models.Table{})
	assert.False(t, ok)

	existing := models.NewTable(models.ColEmailDate)
	existing.Add("01/01/2024 08:00")
	existing.Add("02/01/2024 09:30")
	got, ok := LastEmailDate(n, existing)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 2, 9, 30, 0, 0, time.UTC), got)
}
