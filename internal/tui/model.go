// Package tui renders a cube snapshot as colored swatches using Bubble Tea.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var faceNames = [6]string{"U", "F", "R", "B", "L", "D"}

var swatchColors = [6]lipgloss.Color{
	lipgloss.Color("255"), // U - white
	lipgloss.Color("46"),  // F - green
	lipgloss.Color("196"), // R - red
	lipgloss.Color("21"),  // B - blue
	lipgloss.Color("208"), // L - orange
	lipgloss.Color("226"), // D - yellow
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	faceLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func swatchStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Background(color).Padding(0, 1)
}

// Model is a static Bubble Tea model displaying one cube snapshot.
type Model struct {
	size int
	snap string
}

// NewModel returns a Model rendering snap, a Cube.Snapshot() string for a
// cube of the given size.
func NewModel(size int, snap string) Model {
	return Model{size: size, snap: snap}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("cube %dx%dx%d", m.size, m.size, m.size)))
	b.WriteString("\n\n")

	n := m.size
	for face := 0; face < 6; face++ {
		b.WriteString(faceLabelStyle.Render(faceNames[face]))
		b.WriteString("\n")
		offset := face * n * n
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				c := m.snap[offset+row*n+col] - '0'
				b.WriteString(swatchStyle(swatchColors[c]).Render(" "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("press q to quit"))
	return b.String()
}
