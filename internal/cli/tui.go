package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/railroad"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// maxTextWidth truncates long box texts in the table.
const maxTextWidth = 24

// =============================================================================
// DiagramModel - Interactive diagram browser
// =============================================================================

// inspectView selects the table shown by DiagramModel.
type inspectView int

const (
	viewBoxes inspectView = iota
	viewConnectors
)

// DiagramModel is the bubbletea model for browsing a diagram's boxes and
// connectors.
type DiagramModel struct {
	Doc    diagram.Document
	Tab    inspectView
	Cursor int
	Height int
	Offset int
}

// NewDiagramModel creates a new diagram browser.
func NewDiagramModel(doc diagram.Document) DiagramModel {
	return DiagramModel{
		Doc:    doc,
		Height: 15,
	}
}

func (m DiagramModel) Init() tea.Cmd {
	return nil
}

func (m DiagramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.Tab == viewBoxes {
				m.Tab = viewConnectors
			} else {
				m.Tab = viewBoxes
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rowCount()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := m.rowCount(); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DiagramModel) View() string {
	var b strings.Builder

	d := m.Doc.Diagram
	title := fmt.Sprintf("Diagram %gx%g", round2(d.Width), round2(d.Height))
	if m.Doc.Pattern != "" {
		title += "  " + StyleHighlight.Render(m.Doc.Pattern)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab boxes/connectors  q quit"))
	b.WriteString("\n\n")

	var headers []string
	var rows [][]string
	if m.Tab == viewBoxes {
		headers = []string{"", "ID", "Type", "Text", "X", "Y", "Width", "Height"}
		rows = m.boxRows()
	} else {
		headers = []string{"", "ID", "Type", "Start", "End"}
		rows = m.connectorRows()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, m.rowCount()), m.rowCount())))

	return b.String()
}

func (m DiagramModel) rowCount() int {
	if m.Tab == viewBoxes {
		return len(m.Doc.Diagram.Nodes)
	}
	return len(m.Doc.Diagram.Connects)
}

func (m DiagramModel) window() (int, int) {
	end := m.Offset + m.Height
	if n := m.rowCount(); end > n {
		end = n
	}
	return m.Offset, end
}

func (m DiagramModel) boxRows() [][]string {
	start, end := m.window()
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		box := m.Doc.Diagram.Nodes[i]
		rows = append(rows, []string{
			m.cursorMark(i),
			box.ID,
			boxTypeLabel(box),
			runewidth.Truncate(box.Text, maxTextWidth, "…"),
			fmtCoord(box.X),
			fmtCoord(box.Y),
			fmtCoord(box.Width),
			fmtCoord(box.Height),
		})
	}
	return rows
}

func (m DiagramModel) connectorRows() [][]string {
	start, end := m.window()
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		c := m.Doc.Diagram.Connects[i]
		rows = append(rows, []string{
			m.cursorMark(i),
			c.ID,
			string(c.Type),
			fmtPoint(c.Start),
			fmtPoint(c.End),
		})
	}
	return rows
}

func (m DiagramModel) cursorMark(i int) string {
	if i == m.Cursor {
		return "▸"
	}
	return " "
}

// =============================================================================
// Helpers
// =============================================================================

func boxTypeLabel(b railroad.Box) string {
	label := string(b.Type)
	if b.Label != "" {
		label += " " + b.Label
	}
	if b.Quantifier != nil {
		label += " *"
	}
	return label
}

func fmtCoord(v float64) string {
	return fmt.Sprintf("%g", round2(v))
}

func fmtPoint(p railroad.Point) string {
	return fmt.Sprintf("(%g, %g)", round2(p.X), round2(p.Y))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
