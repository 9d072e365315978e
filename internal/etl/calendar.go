package etl

import (
	"time"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// Holiday is a year-independent calendar holiday: the same month and day
// is flagged in every year of the range.
type Holiday struct {
	Month int
	Day   int
	Name  string
}

// DefaultHolidays returns the built-in US holiday table.
func DefaultHolidays() []Holiday {
	return []Holiday{
		{Month: 1, Day: 1, Name: "New Year"},
		{Month: 7, Day: 4, Name: "Independence Day"},
		{Month: 11, Day: 25, Name: "Thanksgiving"},
		{Month: 12, Day: 25, Name: "Christmas"},
	}
}

// BuildDimDate generates one row per calendar day over the inclusive
// [start, end] range. The output is a pure function of the range and the
// holiday table: no input data is consulted.
func BuildDimDate(start, end time.Time, holidays []Holiday, now time.Time) []model.DimDate {
	holidaySet := make(map[[2]int]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[[2]int{h.Month, h.Day}] = true
	}

	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var rows []model.DimDate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dow := isoWeekday(d)
		_, week := d.ISOWeek()
		rows = append(rows, model.DimDate{
			DateKey:      model.DateKey(d),
			CalendarDate: d,
			DayOfWeek:    dow,
			DayName:      d.Weekday().String(),
			WeekOfYear:   week,
			Month:        int(d.Month()),
			MonthName:    d.Month().String(),
			Quarter:      (int(d.Month())-1)/3 + 1,
			Year:         d.Year(),
			IsHoliday:    holidaySet[[2]int{int(d.Month()), d.Day()}],
			IsWeekend:    dow >= 6,
			CreatedDate:  now,
		})
	}

	logging.Info().
		Int("rows", len(rows)).
		Str("start", start.Format(model.DateFormat)).
		Str("end", end.Format(model.DateFormat)).
		Msg("Built dim_date")
	return rows
}

// isoWeekday numbers days 1 (Monday) through 7 (Sunday).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
