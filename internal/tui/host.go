package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Host key bindings
type hostKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

var hostKeys = hostKeyMap{
	Next: key.NewBinding(
		key.WithKeys("ctrl+n", "ctrl+right"),
		key.WithHelp("ctrl+n", "next tab"),
	),
	Prev: key.NewBinding(
		key.WithKeys("ctrl+p", "ctrl+left"),
		key.WithHelp("ctrl+p", "prev tab"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Host shows registered tabs one at a time. Key presses go to the active tab;
// every other message is broadcast so background work finishes on any tab.
type Host struct {
	tabs     []Tab
	active   int
	width    int
	height   int
	quitting bool
}

// NewHost creates a host over the registry's tabs.
func NewHost(reg *Registry) *Host {
	return &Host{tabs: reg.Tabs()}
}

// Active returns the ID of the visible tab, or "" when there are none.
func (h *Host) Active() string {
	if len(h.tabs) == 0 {
		return ""
	}
	return h.tabs[h.active].ID
}

// Init initializes every tab.
func (h *Host) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range h.tabs {
		cmds = append(cmds, t.Model.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles tab switching and routes messages.
func (h *Host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, hostKeys.Quit):
			h.quitting = true
			return h, tea.Quit
		case key.Matches(msg, hostKeys.Next):
			h.switchTab(1)
			return h, nil
		case key.Matches(msg, hostKeys.Prev):
			h.switchTab(-1)
			return h, nil
		}
		if len(h.tabs) == 0 {
			return h, nil
		}
		return h, h.updateTab(h.active, msg)

	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
	}

	var cmds []tea.Cmd
	for i := range h.tabs {
		cmds = append(cmds, h.updateTab(i, msg))
	}
	return h, tea.Batch(cmds...)
}

func (h *Host) updateTab(i int, msg tea.Msg) tea.Cmd {
	m, cmd := h.tabs[i].Model.Update(msg)
	h.tabs[i].Model = m
	return cmd
}

func (h *Host) switchTab(delta int) {
	if len(h.tabs) == 0 {
		return
	}
	h.active = (h.active + delta + len(h.tabs)) % len(h.tabs)
}

// View renders the title, the tab bar and the active tab.
func (h *Host) View() string {
	if h.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" 📦 folderup "))
	b.WriteString("\n\n")

	var titles []string
	for i, t := range h.tabs {
		if i == h.active {
			titles = append(titles, activeTabStyle.Render(t.Title))
		} else {
			titles = append(titles, inactiveTabStyle.Render(t.Title))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, titles...))
	b.WriteString("\n\n")

	if len(h.tabs) > 0 {
		b.WriteString(h.tabs[h.active].Model.View())
	} else {
		b.WriteString(dimStyle.Render("No tabs registered"))
	}

	help := "[ctrl+n/ctrl+p] switch tab  [ctrl+c] quit"
	b.WriteString(helpStyle.Render(help))

	return appStyle.Render(b.String())
}
