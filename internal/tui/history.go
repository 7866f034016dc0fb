package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/ports"
	"github.com/jmcdonald/folderup/internal/publish"
)

const (
	// HistoryID is the registry ID of the history tab.
	HistoryID    = "history"
	historyTitle = "History"
)

// History key bindings
type historyKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
}

var historyKeys = historyKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

type historyMsg struct {
	entries []ports.TUIHistoryEntry
	err     error
}

// HistoryTab lists past uploads, newest first.
type HistoryTab struct {
	svc    ports.TUIService
	config *config.Config

	entries []ports.TUIHistoryEntry
	cursor  int
	height  int
	err     error
}

// NewHistoryTab creates the history tab.
func NewHistoryTab(cfg *config.Config, svc ports.TUIService) *HistoryTab {
	return &HistoryTab{svc: svc, config: cfg}
}

// Tab wraps the history view for registration.
func (h *HistoryTab) Tab() Tab {
	return Tab{ID: HistoryID, Title: historyTitle, Model: h}
}

func (h *HistoryTab) Init() tea.Cmd {
	return h.load()
}

func (h *HistoryTab) load() tea.Cmd {
	svc, cfg := h.svc, h.config
	return func() tea.Msg {
		entries, err := svc.History(cfg)
		return historyMsg{entries: entries, err: err}
	}
}

func (h *HistoryTab) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		h.entries, h.err = msg.entries, msg.err
		if h.cursor >= len(h.entries) {
			h.cursor = max(len(h.entries)-1, 0)
		}
	case uploadDoneMsg:
		if msg.result.Error == nil {
			return h, h.load()
		}
	case tea.WindowSizeMsg:
		h.height = msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, historyKeys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, historyKeys.Down):
			if h.cursor < len(h.entries)-1 {
				h.cursor++
			}
		case key.Matches(msg, historyKeys.Refresh):
			return h, h.load()
		}
	}
	return h, nil
}

func (h *HistoryTab) View() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Recent Uploads"))
	b.WriteString("\n\n")

	if h.err != nil {
		b.WriteString(errorBadge.Render(fmt.Sprintf("Error loading history: %v", h.err)))
		b.WriteString("\n")
		return b.String()
	}
	if len(h.entries) == 0 {
		b.WriteString(dimStyle.Render("No uploads yet"))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-24s %-28s %10s %6s %s",
		"ARCHIVE", "REPOSITORY", "SIZE", "FILES", "UPLOADED")
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 84)))
	b.WriteString("\n")

	visibleHeight := h.height - 16
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	start := 0
	if h.cursor >= visibleHeight {
		start = h.cursor - visibleHeight + 1
	}

	for i := start; i < len(h.entries) && i < start+visibleHeight; i++ {
		e := h.entries[i]
		cursor := "  "
		style := normalStyle
		if i == h.cursor {
			cursor = "▸ "
			style = selectedStyle
		}
		line := fmt.Sprintf("%s%s %s %10s %6d %s",
			cursor,
			column(e.Archive, 24),
			column(e.RepoID, 28),
			publish.FormatSize(e.Size),
			e.FileCount,
			relativeTime(e.UploadedAt))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if h.cursor < len(h.entries) && h.entries[h.cursor].CommitURL != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(h.entries[h.cursor].CommitURL))
		b.WriteString("\n")
	}

	help := "[↑/↓] navigate  [r] refresh"
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

// truncate shortens s to at most max terminal cells.
func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "…")
}

// column truncates s and pads it to exactly width cells.
func column(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func relativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
