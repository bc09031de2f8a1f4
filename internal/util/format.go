package util

import (
	"time"
)

// eventTimeLayout mirrors the timestamp format the web client has always
// rendered next to comments and chat messages, e.g. "Jan 02, 3:04 pm".
const eventTimeLayout = "Jan 02, 3:04 pm"

// FormatEventTime formats a timestamp for comment and chat events.
func FormatEventTime(t time.Time) string {
	return t.Format(eventTimeLayout)
}

// TruncateContent shortens a text to maxLength characters for log lines
// and notification titles.
func TruncateContent(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}
