package templates

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-radar/models"
)

func TestPagesParse(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)
	for _, name := range []string{"dashboard.html", "report.html", "events_report.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestReportRenders(t *testing.T) {
	tmpl, err := New()
	require.NoError(t, err)

	event := models.GlobalEvent{
		ID:       "news-3",
		Title:    "Stripe & Adyen <merge>",
		Summary:  "Payments consolidation.",
		Category: models.CategoryMarket,
		Heat:     88,
		Metrics:  models.HeatMetrics{News: 90, Reddit: 45, Twitter: 12, GoogleTrend: 70},
		Related:  []models.RelatedEntity{{Name: "Reuters", Type: models.EntityOrganization}},
		Impact:   []models.ImpactAssessment{{Area: "Market Relevance", Level: models.ImpactHigh, Description: "Big."}},
		RelevanceToUserDomain: 77,
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "report.html", map[string]any{
		"Event":       event,
		"Domain":      "fintech",
		"GeneratedAt": time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Global Event Intelligence Report")
	assert.Contains(t, out, "Generated: June 1, 2024")
	assert.Contains(t, out, "Stripe &amp; Adyen &lt;merge&gt;")
	assert.Contains(t, out, "MARKET SHIFTS")
	assert.Contains(t, out, "hsl(145, 70%, 50%)")
	assert.Contains(t, out, "<td>Reddit Activity</td><td>45</td><td>Medium</td>")
	assert.Contains(t, out, "<td>X/Twitter Buzz</td><td>12</td><td>Low</td>")
	assert.Contains(t, out, "Reuters (organization)")
	assert.Contains(t, out, "(HIGH)")
	assert.Contains(t, out, "77%")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "High", MetricLevel(70))
	assert.Equal(t, "Medium", MetricLevel(40))
	assert.Equal(t, "Low", MetricLevel(39))

	assert.Equal(t, "short", Truncate("short", 35))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("héééé", 3))
}
