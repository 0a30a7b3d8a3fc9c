package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lineplanner/pkg/network"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LineListModel - Interactive line selection
// =============================================================================

// LineListModel is the bubbletea model for browsing the lines of a network.
type LineListModel struct {
	net      *network.Store
	lines    []*network.Line
	Cursor   int
	Selected *network.Line
	Height   int
	Offset   int
}

// NewLineListModel creates a new line list model over the network's lines.
func NewLineListModel(net *network.Store) LineListModel {
	return LineListModel{
		net:    net,
		lines:  net.Lines(),
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m LineListModel) Init() tea.Cmd {
	return nil
}

func (m LineListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.lines)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.lines) > 0 {
				m.Selected = m.lines[m.Cursor]
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LineListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Line"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.lines) == 0 {
		b.WriteString(listDimStyle.Render("network has no lines"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.lines) {
		end = len(m.lines)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.lines[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		transfers := 0
		for _, pid := range l.PointIDs() {
			if p, ok := m.net.Point(pid); ok && p.IsTransfer() {
				transfers++
			}
		}

		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color())).Render("●")
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", l.ID()),
			l.Name(),
			swatch,
			fmt.Sprintf("%d", l.Len()),
			fmt.Sprintf("%d", transfers),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Color", "Stops", "Transfers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d lines", m.Cursor+1, len(m.lines))))
	b.WriteString("\n")
	return b.String()
}
