package notifier

import (
	"fmt"
	"html"
	"strings"

	"FuelSentinel/internal/calculator"
	"FuelSentinel/internal/model"
)

const displayDate = "02.01.2006"

// TrendEmoji returns the chart emoji for a direction.
func TrendEmoji(d model.Direction) string {
	if d == model.Down {
		return "📉"
	}
	return "📈"
}

// FormatTrend formats a one-line price update, e.g. "📉 Petrol: 02.12.2024 12.34 (-0.16)".
func FormatTrend(t model.Trend) string {
	return fmt.Sprintf("%s %s: %s %s (%s)",
		TrendEmoji(t.Direction), t.Category, t.AsOf.Format(displayDate), t.Current.String(), t.Delta.String())
}

// FormatTable formats a price series as a MarkdownV2 message with a
// monospaced date/price table and a min/max/avg footer.
func FormatTable(series model.PriceSeries) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("*%s Prices Table*\n\n", series.Category))
	b.WriteString("```\n")
	for _, p := range series.Points {
		b.WriteString(escapeCode(fmt.Sprintf("%s\t%s", p.Time.Format(displayDate), p.Price.StringFixed(2))))
		b.WriteByte('\n')
	}

	low, high, err := calculator.PriceRange(series)
	if err == nil {
		avg, _ := calculator.Average(series)
		b.WriteByte('\n')
		b.WriteString(escapeCode(fmt.Sprintf("min\t%s\nmax\t%s\navg\t%s", low.StringFixed(2), high.StringFixed(2), avg.StringFixed(2))))
		b.WriteByte('\n')
	}
	b.WriteString("```")
	return b.String()
}

// Contact describes the maintainer shown by the contact command.
type Contact struct {
	Name     string
	LinkedIn string
	GitHub   string
	Email    string
}

// FormatContact formats the maintainer contact card as HTML.
func FormatContact(c Contact) string {
	if c.Name == "" && c.LinkedIn == "" && c.GitHub == "" && c.Email == "" {
		return "Contact information is not available."
	}
	var lines []string
	if c.Name != "" {
		lines = append(lines, fmt.Sprintf("<b>Developer:</b> %s", html.EscapeString(c.Name)))
	}
	if c.LinkedIn != "" {
		lines = append(lines, fmt.Sprintf(`<a href="%s">LinkedIn</a>`, html.EscapeString(c.LinkedIn)))
	}
	if c.GitHub != "" {
		lines = append(lines, fmt.Sprintf(`<a href="%s">GitHub</a>`, html.EscapeString(c.GitHub)))
	}
	if c.Email != "" {
		e := html.EscapeString(c.Email)
		lines = append(lines, fmt.Sprintf(`<a href="mailto:%s">Email: %s</a>`, e, e))
	}
	return strings.Join(lines, "\n")
}

// escapeCode escapes the characters MarkdownV2 reserves inside pre blocks.
func escapeCode(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "`", "\\`")
}
