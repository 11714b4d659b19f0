package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerItem is one entry in the scene menu.
type PickerItem struct {
	Name        string
	Description string
}

// Loader resolves a menu entry into a runnable setup.
type Loader func(name string) (Setup, error)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Picker lists scenes and hands the chosen one to a live Model.
type Picker struct {
	items  []PickerItem
	cursor int
	load   Loader
	live   *Model
	err    error
}

func NewPicker(items []PickerItem, load Loader) Picker {
	return Picker{items: items, load: load}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.items) == 0 {
			return p, nil
		}
		setup, err := p.load(p.items[p.cursor].Name)
		if err != nil {
			p.err = err
			return p, nil
		}
		live, err := NewModel(setup)
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live = &live
		return p, live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + HeaderStyle.Render("MOTION2D") + "\n    " + Subtle.Render("particle and rigidbody scenes") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, item := range p.items {
		desc := item.Description
		if len(desc) > 48 {
			desc = desc[:45] + "..."
		}
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-16s", item.Name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-16s", item.Name)), idleDescStyle.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + StatusError.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" select  ") + keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}
