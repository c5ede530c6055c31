package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"TrendScreener/internal/aggregator"
	"TrendScreener/internal/model"
)

// DisplayTimeLayout is the timestamp layout shown to users.
const DisplayTimeLayout = "02-01-06 15:04"

// telegramMaxLen is the Bot API limit for one message.
const telegramMaxLen = 4096

var markdownHeader = append([]string{"Ticker", "Empresa", "Capital", "Cambio"}, aggregator.ColumnNames[1:]...)

// FormatMarketCap renders a market cap in millions of USD, e.g. "$1,234.57 M".
func FormatMarketCap(marketCap float64) string {
	if marketCap <= 0 {
		return "-"
	}
	return money.NewFromFloat(marketCap/1e6, money.USD).Display() + " M"
}

// FormatPercent renders v with one decimal and a percent sign.
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

func displayTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DisplayTimeLayout)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// FormatMarkdown renders the report as a markdown document with one table
// row per entity, followed by the entities that could not be scored.
func FormatMarkdown(r *model.Report, loc *time.Location) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ranking de tendencia\n\n")
	fmt.Fprintf(&b, "Actualizado: %s | Intervalo: %s | Periodo: %s | Desde: %d | Hasta: %d\n\n",
		displayTime(r.GeneratedAt, loc), r.Interval, r.Period, r.Window.From, r.Window.To)

	b.WriteString("| " + strings.Join(markdownHeader, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(markdownHeader)) + "\n")
	for _, row := range r.Table.Rows {
		cells := []string{
			escapeCell(row.Ticker),
			escapeCell(row.Name),
			FormatMarketCap(row.MarketCap),
			FormatPercent(row.ChangePct),
		}
		if m := row.Metric; m != nil {
			cells = append(cells, m.Interval, fmt.Sprint(m.From), FormatPercent(m.Variation), FormatPercent(m.Deviation))
		} else {
			cells = append(cells, "-", "-", "-", "-")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if len(r.Failures) > 0 {
		fmt.Fprintf(&b, "\n## Sin puntaje (%d)\n\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "- **%s** `%s`: %s\n", escapeCell(f.Ticker), f.Kind, errText(f))
		}
	}
	return b.String()
}

// FormatTelegram renders the report as a Telegram HTML message. Rows beyond
// the message size limit are dropped and counted in a trailing line.
func FormatTelegram(r *model.Report, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>Ranking de tendencia</b> | %s\n", displayTime(r.GeneratedAt, loc))
	fmt.Fprintf(&b, "Intervalo %s, desde %d, hasta %d\n\n", html.EscapeString(r.Interval), r.Window.From, r.Window.To)

	lines := make([]string, 0, len(r.Table.Rows))
	for _, row := range r.Table.Rows {
		if row.Metric == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("<b>%s</b> %s | var %s | desv %s",
			html.EscapeString(row.Ticker), FormatMarketCap(row.MarketCap),
			FormatPercent(row.Metric.Variation), FormatPercent(row.Metric.Deviation)))
	}
	footer := ""
	if n := len(r.Failures); n > 0 {
		footer = fmt.Sprintf("\n⚠️ %d sin puntaje", n)
	}

	for i, line := range lines {
		more := fmt.Sprintf("… y %d más\n", len(lines)-i)
		if b.Len()+len(line)+1+len(more)+len(footer) > telegramMaxLen {
			b.WriteString(more)
			break
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(footer)
	return b.String()
}

// FormatPlain renders a compact text summary, used for command replies
// when no report is available yet.
func FormatPlain(r *model.Report) string {
	if r == nil {
		return "Todavía no hay ranking disponible."
	}
	return fmt.Sprintf("Ranking %s: %d con puntaje, %d sin puntaje",
		r.RunID, r.Table.Scored(), len(r.Failures))
}

func errText(f model.Failure) string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return f.Err.Error()
}
