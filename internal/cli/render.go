package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jobcal/jobcal/pkg/calendar"
	"github.com/jobcal/jobcal/pkg/occurrence"
)

var (
	colorDim      = lipgloss.Color("#928374")
	colorHeader   = lipgloss.Color("#fe8019")
	colorDeadline = lipgloss.Color("#fb4934")
	colorPrep     = lipgloss.Color("#83a598")

	styleHeader   = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleDeadline = lipgloss.NewStyle().Foreground(colorDeadline)
	stylePrep     = lipgloss.NewStyle().Foreground(colorPrep)
	styleBold     = lipgloss.NewStyle().Bold(true)
)

const cellWidth = 16

// RenderMonth draws the month as a week grid. Every cell has room for MaxPerDay entries plus
// the day number and the "+N" line, so all rows line up.
func RenderMonth(m calendar.Month) string {
	cell := lipgloss.NewStyle().Width(cellWidth).Height(m.MaxPerDay + 2).PaddingRight(1)

	header := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(m.WeekStart) + i) % 7)
		header = append(header, cell.Height(1).Render(styleHeader.Render(day.String()[:3])))
	}

	cells := make([]string, 0, m.Weeks*7)
	for i := 0; i < m.LeadingBlanks; i++ {
		cells = append(cells, cell.Render(""))
	}
	for _, d := range m.Days {
		cells = append(cells, cell.Render(renderCell(d)))
	}
	for len(cells) < m.Weeks*7 {
		cells = append(cells, cell.Render(""))
	}

	rows := []string{
		styleBold.Render(fmt.Sprintf("%s %d", m.Month, m.Year)),
		lipgloss.JoinHorizontal(lipgloss.Top, header...),
	}
	for w := 0; w*7 < len(cells); w++ {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[w*7:(w+1)*7]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(d calendar.DayCell) string {
	lines := []string{styleBold.Render(fmt.Sprintf("%2d", d.Date.Day()))}
	for _, e := range d.Entries {
		lines = append(lines, styleFor(e.Kind).Render(truncate(shortLabel(e), cellWidth-1)))
	}
	if d.Overflow > 0 {
		lines = append(lines, styleDim.Render(fmt.Sprintf("+%d", d.Overflow)))
	}
	return strings.Join(lines, "\n")
}

func shortLabel(e calendar.Entry) string {
	switch {
	case e.Kind == occurrence.KindDeadline:
		return "! " + e.Title
	case e.Kind == occurrence.KindPreparation:
		return "~ " + e.Title
	case e.AllDay:
		return e.Title
	default:
		return e.Start.Format("15:04") + " " + e.Title
	}
}

func styleFor(kind occurrence.Kind) lipgloss.Style {
	switch kind {
	case occurrence.KindDeadline:
		return styleDeadline
	case occurrence.KindPreparation:
		return stylePrep
	default:
		return lipgloss.NewStyle()
	}
}

// truncate cuts s to at most width terminal columns, marking the cut with "…".
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width-1 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + "…"
}

// RenderDay lists a day's entries, one per line.
func RenderDay(d calendar.Day) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(d.Date.Format("2006-01-02 Mon")))
	b.WriteString("\n")
	if len(d.Entries) == 0 {
		b.WriteString(styleDim.Render("  nothing scheduled"))
		b.WriteString("\n")
		return b.String()
	}
	for _, e := range d.Entries {
		when := "all day    "
		if !e.AllDay {
			when = e.Start.Format("15:04") + "-" + e.End.Format("15:04")
		}
		line := fmt.Sprintf("  %s  %s", when, e.Title)
		switch e.Kind {
		case occurrence.KindDeadline:
			line += " (deadline)"
		case occurrence.KindPreparation:
			line += " (preparation)"
		}
		b.WriteString(styleFor(e.Kind).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
