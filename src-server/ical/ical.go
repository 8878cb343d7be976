// Package ical serializes a single wedding event into an iCalendar
// document that phone calendar apps can import.
package ical

import (
	"strings"
	"time"
)

// Event is the one VEVENT the invitation exposes. Start and End are
// converted to UTC during marshaling.
type Event struct {
	ID       string
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
}

// Marshal turns the event into a VCALENDAR string. Content lines longer
// than 75 octets are folded with a leading space as RFC 5545 wants.
func Marshal(e Event) string {
	var sb strings.Builder
	writer := split75wrapper(sb.WriteString)

	writer("BEGIN:VCALENDAR\r\n")
	writer("PRODID:-//weddinvite//EN\r\n")
	writer("VERSION:2.0\r\n")
	writer("BEGIN:VEVENT\r\n")
	writer("UID:" + escape(e.ID) + "\r\n")
	writer("SUMMARY:" + escape(e.Summary) + "\r\n")
	if e.Location != "" {
		writer("LOCATION:" + escape(e.Location) + "\r\n")
	}
	writer("DTSTART:" + e.Start.UTC().Format("20060102T150405Z") + "\r\n")
	writer("DTEND:" + e.End.UTC().Format("20060102T150405Z") + "\r\n")
	writer("DTSTAMP:" + time.Now().UTC().Format("20060102T150405Z") + "\r\n")
	writer("END:VEVENT\r\n")
	writer("END:VCALENDAR\r\n")

	return sb.String()
}

// escape backslash-escapes the characters that terminate or structure a
// content line value.
func escape(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return replacer.Replace(value)
}

// split75wrapper transforms a writer into one that folds each content
// line at 75 characters, continuation lines prefixed with a space.
func split75wrapper(writer func(string) (int, error)) func(string) {
	return func(str string) {
		line := strings.TrimSuffix(str, "\r\n")
		if len(line) <= 75 {
			writer(str)
			return
		}
		for i := 0; i < len(line); i += 75 {
			end := i + 75
			if end > len(line) {
				end = len(line)
			}
			if i > 0 {
				writer(" ")
			}
			writer(line[i:end])
			writer("\r\n")
		}
	}
}
