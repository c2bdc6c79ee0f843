// Package period models payroll periods: an English month name plus a
// four-digit year.
package period

import (
	"sort"
	"strings"
	"time"
)

// YearWindow is how many years, including the current one, a payment
// request may target.
const YearWindow = 5

var months = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Months returns the month names in calendar order.
func Months() []string {
	out := make([]string, len(months))
	copy(out, months[:])
	return out
}

// MonthIndex returns the 0-based calendar position of name, or -1 when name
// is not an English month. Matching is case-insensitive.
func MonthIndex(name string) int {
	for i, m := range months {
		if strings.EqualFold(m, name) {
			return i
		}
	}
	return -1
}

func IsValidMonth(name string) bool {
	return MonthIndex(name) >= 0
}

// Normalize returns the canonical spelling of a month name.
func Normalize(name string) string {
	if idx := MonthIndex(name); idx >= 0 {
		return months[idx]
	}
	return name
}

// MonthOf returns the month name of t.
func MonthOf(t time.Time) string {
	return months[int(t.Month())-1]
}

// Years returns the selectable years, newest first: the current year and the
// four before it.
func Years(now time.Time) []int {
	current := now.Year()
	out := make([]int, 0, YearWindow)
	for y := current; y > current-YearWindow; y-- {
		out = append(out, y)
	}
	return out
}

func IsYearInWindow(year int, now time.Time) bool {
	current := now.Year()
	return year <= current && year > current-YearWindow
}

// Less orders by year, then by calendar month. Unknown months sort last
// within their year.
func Less(aMonth string, aYear int, bMonth string, bYear int) bool {
	if aYear != bYear {
		return aYear < bYear
	}
	return rank(aMonth) < rank(bMonth)
}

func rank(month string) int {
	if idx := MonthIndex(month); idx >= 0 {
		return idx
	}
	return len(months)
}

// Periodic is implemented by anything carrying a payroll period.
type Periodic interface {
	PeriodMonth() string
	PeriodYear() int
}

// SortByPeriod sorts items ascending by (year, month) and keeps the input
// order of items sharing a period.
func SortByPeriod[T Periodic](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i].PeriodMonth(), items[i].PeriodYear(), items[j].PeriodMonth(), items[j].PeriodYear())
	})
}
