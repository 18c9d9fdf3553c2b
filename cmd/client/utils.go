package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/figurevault/figurevault/internal/coordinator"
)

var (
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func statusStyle(s coordinator.Status) lipgloss.Style {
	switch s {
	case coordinator.StatusDone:
		return green
	case coordinator.StatusFailed:
		return red
	case coordinator.StatusUploading:
		return yellow
	default:
		return gray
	}
}

// resultRow is one line of the summary table.
type resultRow struct {
	Key    string
	File   string
	Status coordinator.Status
	Detail string
}

func renderTable(rows []resultRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(gray).
		Headers("KEY", "FILE", "STATUS", "URL / ERROR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(rows) {
				return cellStyle.Inherit(statusStyle(rows[row].Status))
			}
			return cellStyle
		})

	for _, r := range rows {
		t.Row(r.Key, r.File, string(r.Status), r.Detail)
	}
	return t.String()
}
