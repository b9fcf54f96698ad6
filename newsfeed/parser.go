package newsfeed

import (
	"regexp"
	"strings"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Item is one <doc> block of the webhook text, fields copied verbatim.
type Item struct {
	CitationKey    string    `json:"citationKey"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	PublishedDate  string    `json:"publishedDate"`
	Source         string    `json:"source"`
	Classification string    `json:"classification"`
	Sentiment      Sentiment `json:"sentiment"`
	ReportingVoice string    `json:"reportingVoice"`
	Continent      string    `json:"continent"`
}

var (
	docPattern      = regexp.MustCompile(`(?s)<doc>(.*?)</doc>`)
	citationPattern = regexp.MustCompile(`Citation key:\s*\[(\d+)\]`)
)

// ParseResponse extracts every <doc> block that carries a title.
// Blocks without a title are skipped; text without blocks yields nil.
func ParseResponse(text string) []Item {
	var items []Item
	for _, m := range docPattern.FindAllStringSubmatch(text, -1) {
		if item, ok := parseDoc(m[1]); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseDoc(content string) (Item, bool) {
	title := valueUntil(content, "Title", "\n\n", "\nSummary:")
	if title == "" {
		return Item{}, false
	}

	var citation string
	if m := citationPattern.FindStringSubmatch(content); m != nil {
		citation = m[1]
	}

	var sentiment Sentiment
	switch strings.ToLower(labeledField(content, "Sentiment")) {
	case "positive":
		sentiment = SentimentPositive
	case "negative":
		sentiment = SentimentNegative
	default:
		sentiment = SentimentNeutral
	}

	return Item{
		CitationKey:    citation,
		Title:          title,
		Summary:        valueUntil(content, "Summary", "\nPublished date:"),
		PublishedDate:  labeledField(content, "Published date"),
		Source:         labeledField(content, "Source"),
		Classification: labeledField(content, "Classification"),
		Sentiment:      sentiment,
		ReportingVoice: labeledField(content, "Reporting voice"),
		Continent:      labeledField(content, "Continent"),
	}, true
}

// afterLabel returns the text following "label:" with leading whitespace
// removed.
func afterLabel(content, label string) (string, bool) {
	i := strings.Index(content, label+":")
	if i < 0 {
		return "", false
	}
	rest := strings.TrimLeft(content[i+len(label)+1:], " \t\r\n\f\v")
	return rest, rest != ""
}

// valueUntil returns the value of label up to the earliest terminator.
// The value is empty when no terminator follows it.
func valueUntil(content, label string, terminators ...string) string {
	rest, ok := afterLabel(content, label)
	if !ok {
		return ""
	}
	end := -1
	for _, term := range terminators {
		// the value holds at least one character
		if j := strings.Index(rest[1:], term); j >= 0 && (end < 0 || j+1 < end) {
			end = j + 1
		}
	}
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// labeledField returns the value of label up to the next line starting with
// a capital letter, a blank line, or the end of the block.
func labeledField(content, label string) string {
	rest, ok := afterLabel(content, label)
	if !ok {
		return ""
	}
	for i := 1; i < len(rest)-1; i++ {
		if rest[i] != '\n' {
			continue
		}
		next := rest[i+1]
		if next == '\n' || ('A' <= next && next <= 'Z') {
			return strings.TrimSpace(rest[:i])
		}
	}
	return strings.TrimSpace(rest)
}
