package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"worksphere/internal/shared/period"
)

type row struct {
	month string
	year  int
	tag   string
}

func (r row) PeriodMonth() string { return r.month }
func (r row) PeriodYear() int     { return r.year }

func TestMonthIndex(t *testing.T) {
	assert.Equal(t, 0, period.MonthIndex("January"))
	assert.Equal(t, 11, period.MonthIndex("december"))
	assert.Equal(t, -1, period.MonthIndex("Smarch"))
	assert.False(t, period.IsValidMonth(""))
	assert.Equal(t, "March", period.Normalize("MARCH"))
}

func TestYears(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []int{2024, 2023, 2022, 2021, 2020}, period.Years(now))
	assert.True(t, period.IsYearInWindow(2020, now))
	assert.False(t, period.IsYearInWindow(2019, now))
	assert.False(t, period.IsYearInWindow(2025, now))
}

func TestSortByPeriod(t *testing.T) {
	rows := []row{
		{month: "March", year: 2024, tag: "a"},
		{month: "January", year: 2024, tag: "b"},
		{month: "December", year: 2023, tag: "c"},
		{month: "March", year: 2024, tag: "d"},
		{month: "February", year: 2024, tag: "e"},
	}

	period.SortByPeriod(rows)

	var tags []string
	for _, r := range rows {
		tags = append(tags, r.tag)
	}
	assert.Equal(t, []string{"c", "b", "e", "a", "d"}, tags)

	for i := 1; i < len(rows); i++ {
		assert.False(t, period.Less(rows[i].month, rows[i].year, rows[i-1].month, rows[i-1].year))
	}
}
