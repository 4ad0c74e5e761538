package ui

import (
	"strings"
	"time"
)

// Placeholder stands in for absent optional values.
const Placeholder = "-"

const displayDateLayout = "02/01/2006"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML makes free text safe to place in markup.
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}

// FormatDate renders a stored date as DD/MM/YYYY. Blank or unparseable input renders Placeholder.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Placeholder
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(displayDateLayout)
		}
	}
	return Placeholder
}

func formatOptionalDate(value *string) string {
	if value == nil {
		return Placeholder
	}
	return FormatDate(*value)
}

func orPlaceholder(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return Placeholder
	}
	return *value
}
