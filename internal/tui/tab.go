package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrDuplicateTab is returned when a tab ID is registered twice.
var ErrDuplicateTab = errors.New("duplicate tab id")

// Tab is one page of the host. ID is a stable machine name, Title is shown
// in the tab bar.
type Tab struct {
	ID    string
	Title string
	Model tea.Model
}

// Registry collects tabs in registration order.
type Registry struct {
	tabs []Tab
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a tab. IDs must be unique and non-empty.
func (r *Registry) Register(t Tab) error {
	if t.ID == "" {
		return errors.New("tab id is required")
	}
	if t.Model == nil {
		return fmt.Errorf("tab %q has no model", t.ID)
	}
	for _, existing := range r.tabs {
		if existing.ID == t.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateTab, t.ID)
		}
	}
	r.tabs = append(r.tabs, t)
	return nil
}

// Tabs returns the registered tabs in order.
func (r *Registry) Tabs() []Tab {
	out := make([]Tab, len(r.tabs))
	copy(out, r.tabs)
	return out
}
