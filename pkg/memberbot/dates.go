package memberbot

import (
	"fmt"
	"time"
)

// MonthChoices lists the month names offered by the date commands, in order.
var MonthChoices = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthToNum = func() map[string]int {
	m := make(map[string]int, len(MonthChoices))
	for i, name := range MonthChoices {
		m[name] = i + 1
	}
	return m
}()

// BuildDate turns a month name and a day into the stored MM-DD form.
// It returns "" for an unknown month or an out-of-range day.
func BuildDate(monthName string, day int) string {
	month, ok := monthToNum[monthName]
	if !ok || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%02d-%02d", month, day)
}

// NormalizeDate validates a raw MM-DD string and returns its canonical form,
// or "" if it does not parse.
func NormalizeDate(raw string) string {
	dt, err := time.Parse("01-02", raw)
	if err != nil {
		return ""
	}
	return dt.Format("01-02")
}

// DateOfYear formats t as the MM-DD key used throughout the stored document.
func DateOfYear(t time.Time) string {
	return t.UTC().Format("01-02")
}
