package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	pickerCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pickerRowStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	pickerHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	pickerHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// SnapshotListModel is the bubbletea model behind `snapshot show` without a
// name. Selected is empty when the user quits without choosing.
type SnapshotListModel struct {
	Names    []string
	Cursor   int
	Selected string
	Height   int // Visible rows
	Offset   int // Index of the first visible row
}

// NewSnapshotListModel creates a picker over names.
func NewSnapshotListModel(names []string) SnapshotListModel {
	return SnapshotListModel{Names: names, Height: 15}
}

func (m SnapshotListModel) Init() tea.Cmd { return nil }

func (m SnapshotListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.moveTo(m.Cursor)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if len(m.Names) > 0 {
				m.Selected = m.Names[m.Cursor]
			}
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Names) - 1)
		}
	}
	return m, nil
}

// moveTo places the cursor on row i, clamped to the list, and scrolls so it
// stays visible.
func (m *SnapshotListModel) moveTo(i int) {
	m.Cursor = max(0, min(i, len(m.Names)-1))
	switch {
	case m.Cursor < m.Offset:
		m.Offset = m.Cursor
	case m.Cursor >= m.Offset+m.Height:
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m SnapshotListModel) View() string {
	end := min(m.Offset+m.Height, len(m.Names))
	rows := make([][]string, 0, max(end-m.Offset, 0))
	for i := m.Offset; i < end; i++ {
		marker := "  "
		if i == m.Cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{marker, m.Names[i]})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Snapshot").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == -1:
				return pickerHeaderStyle
			case m.Offset+row == m.Cursor:
				return pickerCursorStyle
			default:
				return pickerRowStyle
			}
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select Snapshot") + "\n")
	b.WriteString(pickerHelpStyle.Render("↑/↓ move  g/G first/last  ⏎ open  q quit") + "\n\n")
	b.WriteString(t.Render() + "\n\n")
	b.WriteString(pickerHelpStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))
	return b.String()
}
