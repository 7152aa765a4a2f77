package feed

import (
	"fmt"
	"time"
)

var (
	germanWeekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}
	germanMonths   = [...]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
)

// DateFormatter renders separator labels and entry times in one locale and time zone
type DateFormatter struct {
	Locale   string
	Location *time.Location
}

// NewDateFormatter returns a formatter for locale ("de" or "en"); a nil location means time.Local
func NewDateFormatter(locale string, loc *time.Location) DateFormatter {
	if loc == nil {
		loc = time.Local
	}
	if locale != "en" {
		locale = "de"
	}
	return DateFormatter{Locale: locale, Location: loc}
}

func (f DateFormatter) loc() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Day returns midnight of t's calendar date in the formatter's zone
func (f DateFormatter) Day(t time.Time) time.Time {
	lt := t.In(f.loc())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, f.loc())
}

// FullDate renders weekday, day, month and year, e.g. "Montag, 1. Januar 2024"
func (f DateFormatter) FullDate(t time.Time) string {
	lt := t.In(f.loc())
	if f.Locale == "en" {
		return lt.Format("Monday, January 2, 2006")
	}
	return fmt.Sprintf("%s, %d. %s %d",
		germanWeekdays[lt.Weekday()], lt.Day(), germanMonths[lt.Month()-1], lt.Year())
}

// TimeRange renders "15:04", or "15:04 - 16:30" when stop is set
func (f DateFormatter) TimeRange(start time.Time, stop *time.Time) string {
	s := start.In(f.loc()).Format("15:04")
	if stop == nil {
		return s
	}
	return s + " - " + stop.In(f.loc()).Format("15:04")
}
