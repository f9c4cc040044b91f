package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/gophadmin/internal/client/notify"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	categoryStyles = map[notify.Category]lipgloss.Style{
		notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		notify.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

// renderNotice formats one notification as "[category] text".
func renderNotice(m notify.Message) string {
	style, ok := categoryStyles[m.Category]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(fmt.Sprintf("[%s] %s", m.Category, m.Text))
}

func renderPage(p router.Page) string {
	var b strings.Builder
	title := p.Title
	if title == "" {
		title = p.URL
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(" ")
	b.WriteString(faintStyle.Render(p.URL))
	if body := strings.TrimRight(p.Body, "\n"); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}

// writeTable renders rows in left-aligned columns sized to the widest cell.
func writeTable(w io.Writer, columns []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, faintStyle.Render("(no records)"))
		return
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, r := range rows {
		for i := range columns {
			if i < len(r) && lipgloss.Width(r[i]) > widths[i] {
				widths[i] = lipgloss.Width(r[i])
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(columns))
		for i := range columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(widths[i] + 2).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	fmt.Fprintln(w, line(columns, headStyle))
	for _, r := range rows {
		fmt.Fprintln(w, line(r, lipgloss.NewStyle()))
	}
}

func writeError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
