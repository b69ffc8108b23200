package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

// martes 2 de enero de 2024
var today = time.Date(2024, time.January, 2, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestDayFirstAcrossDialects(t *testing.T) {
	n := Fixed(today)
	for _, d := range []Dialect{RelativeDay, LooseTimestamp, DayFirst, WeekdayTime} {
		t.Run(string(d), func(t *testing.T) {
			res := n.Parse(d, "15/08/2024")
			require.True(t, res.OK(), res.Err())
			assert.Equal(t, day(2024, time.August, 15), res.Date.Day())
			assert.False(t, res.Date.HasTime)
		})
	}
}

func TestRelativeDay(t *testing.T) {
	n := Fixed(today)
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"yesterday with trailing date", "Yesterday, 1 January", day(2024, time.January, 1)},
		{"today", "Today", day(2024, time.January, 2)},
		{"today lower case", "today, 2 January", day(2024, time.January, 2)},
		{"weekday without year", "Friday, 18 July", day(2024, time.July, 18)},
		{"weekday with year", "Monday, 30 December 2024", day(2024, time.December, 30)},
		{"abbreviated month", "Sat, 3 Feb", day(2024, time.February, 3)},
		{"stored sheet format", "18/07/2025", day(2025, time.July, 18)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Parse(RelativeDay, tt.in)
			require.True(t, res.OK(), res.Err())
			assert.Equal(t, tt.want, res.Date.Time)
		})
	}
}

func TestRelativeDayRejects(t *testing.T) {
	n := New(func() time.Time { return time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC) })
	tests := []struct {
		in   string
		want Reason
	}{
		{"", ReasonEmpty},
		{"   ", ReasonEmpty},
		{"Someday, 1 January", ReasonUnsupported},
		{"Wednesday, 29 February", ReasonMalformed},
		{"Monday, 31 April 2024", ReasonMalformed},
		{"not a date", ReasonUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := n.Parse(RelativeDay, tt.in)
			assert.False(t, res.OK())
			assert.Equal(t, tt.want, res.Reason)
			assert.True(t, res.Date.IsZero())
		})
	}
}

func TestLooseTimestamp(t *testing.T) {
	n := Fixed(today)
	tests := []struct {
		name    string
		in      string
		want    time.Time
		hasTime bool
	}{
		{"embedded tokens", "Order placed 03-02-2024 at 14:30 GMT", at(2024, time.February, 3, 14, 30), true},
		{"direct parse", "03/02/2024 09:15", at(2024, time.February, 3, 9, 15), true},
		{"scattered whitespace", "  05-06-2024\t\t  08:05  ", at(2024, time.June, 5, 8, 5), true},
		{"no time token", "paid on 05-06-2024", day(2024, time.June, 5), false},
		{"year first token", "created 2024-06-05 at 10:00", at(2024, time.June, 5, 10, 0), true},
		{"last clock wins", "10:00 05-06-2024 11:45", at(2024, time.June, 5, 11, 45), true},
		{"colon word is not a clock", "Note: paid 03-02-2024", day(2024, time.February, 3), false},
		{"reference with colon", "ref:ABC 03-02-2024", day(2024, time.February, 3), false},
		{"trailing period", "03-02-2024.", day(2024, time.February, 3), false},
		{"unreadable clock keeps date", "03-02-2024 at 99:99", day(2024, time.February, 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Parse(LooseTimestamp, tt.in)
			require.True(t, res.OK(), res.Err())
			assert.Equal(t, tt.want, res.Date.Time)
			assert.Equal(t, tt.hasTime, res.Date.HasTime)
		})
	}

	res := n.Parse(LooseTimestamp, "placed 31-02-2024 10:00")
	assert.Equal(t, ReasonMalformed, res.Reason)
	res = n.Parse(LooseTimestamp, "no date here")
	assert.Equal(t, ReasonUnsupported, res.Reason)
}

func TestDayFirst(t *testing.T) {
	n := Fixed(today)
	res := n.Parse(DayFirst, "01/02/2024 10:00")
	require.True(t, res.OK())
	assert.Equal(t, at(2024, time.February, 1, 10, 0), res.Date.Time)

	res = n.Parse(DayFirst, "2024-03-04 12:00:00")
	require.True(t, res.OK())
	assert.Equal(t, at(2024, time.March, 4, 12, 0), res.Date.Time)

	res = n.Parse(DayFirst, "32/01/2024 10:00")
	assert.Equal(t, ReasonMalformed, res.Reason)

	res = n.Parse(DayFirst, "Yesterday")
	assert.Equal(t, ReasonUnsupported, res.Reason)
}

func TestWeekdayTime(t *testing.T) {
	n := Fixed(today) // martes
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"same weekday is today", "Tue 07:46", at(2024, time.January, 2, 7, 46)},
		{"previous monday", "Mon 18:00", at(2024, time.January, 1, 18, 0)},
		{"wednesday goes back six days", "Wed 09:05", at(2023, time.December, 27, 9, 5)},
		{"today word", "Today 10:15", at(2024, time.January, 2, 10, 15)},
		{"yesterday word", "Yesterday 23:59", at(2024, time.January, 1, 23, 59)},
		{"absolute first", "15/08/2024 10:00", at(2024, time.August, 15, 10, 0)},
		{"rfc word date", "Thu, 15 Aug 2024 10:00:05", time.Date(2024, time.August, 15, 10, 0, 5, 0, time.UTC)},
		{"month first when day first impossible", "08/15/2024 10:00", at(2024, time.August, 15, 10, 0)},
		{"date part fallback", "15/08/2024 at noon", day(2024, time.August, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Parse(WeekdayTime, tt.in)
			require.True(t, res.OK(), res.Err())
			assert.Equal(t, tt.want, res.Date.Time)
		})
	}

	res := n.Parse(WeekdayTime, "Tue 25:99")
	assert.Equal(t, ReasonMalformed, res.Reason)
}

func TestParseSheetAndUnknownDialect(t *testing.T) {
	n := Fixed(today)
	res := n.ParseSheet(models.SheetSales, "01/01/2024 10:00")
	require.True(t, res.OK())
	assert.Equal(t, at(2024, time.January, 1, 10, 0), res.Date.Time)

	res = n.ParseSheet(models.Sheet("crm"), "01/01/2024")
	assert.Equal(t, ReasonUnknownDialect, res.Reason)
	res = n.Parse(Dialect("nope"), "01/01/2024")
	assert.Equal(t, ReasonUnknownDialect, res.Reason)
	assert.Error(t, res.Err())
}

func TestTodayUsesClockCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	n := Fixed(time.Date(2024, time.May, 10, 1, 0, 0, 0, loc))
	assert.Equal(t, day(2024, time.May, 10), n.Today())
}
