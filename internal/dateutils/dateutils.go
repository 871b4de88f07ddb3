// Package dateutils provides the date parsing used by the import readers.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layout constants.
const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutDutch = "02-01-2006"
)

// commonFormats lists the layouts seen in Dutch bank exports, day-first
// layouts before ambiguous alternatives.
var commonFormats = []string{
	DateLayoutISO,
	DateLayoutDutch,
	"02.01.2006",
	"02/01/2006",
	"20060102",
	"2006-01-02 15:04:05",
}

// ParseDate attempts to parse a date string using the common bank formats.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range commonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
