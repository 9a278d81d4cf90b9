package main

import (
	"charm.land/lipgloss/v2"
)

var (
	colorAccent = lipgloss.Color("#191C1F")
	colorBlue   = lipgloss.Color("#0666EB")
	colorGreen  = lipgloss.Color("#00BE90")
	colorRed    = lipgloss.Color("#E23B4A")
	colorDim    = lipgloss.Color("#8B959E")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	labelStyle  = lipgloss.NewStyle().Foreground(colorDim)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	linkStyle   = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent).Padding(0, 1)
)

func field(label, value string) string {
	return labelStyle.Width(16).Render(label) + valueStyle.Render(value)
}

func row(widths []int, cells ...string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		style := lipgloss.NewStyle()
		if i < len(widths) {
			style = style.Width(widths[i]).MaxWidth(widths[i])
		}
		parts[i] = style.Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
