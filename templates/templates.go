package templates

import (
	"embed"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

//go:embed *.html
var files embed.FS

// New parses every page template with the shared helpers.
func New() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"upper":       strings.ToUpper,
		"metricLevel": MetricLevel,
		"truncate":    Truncate,
		// colors come from the closed enumeration tables, never from input
		"css": func(s string) template.CSS { return template.CSS(s) },
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
	}
}

// MetricLevel buckets a 0..100 heat metric for the report tables.
func MetricLevel(v int) string {
	switch {
	case v >= 70:
		return "High"
	case v >= 40:
		return "Medium"
	default:
		return "Low"
	}
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
