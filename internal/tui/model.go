// Package tui provides the interactive terminal front end: a host with one
// tab per registered extension.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/ports"
)

// NewAppWithConfig registers the built-in tabs and returns the host.
func NewAppWithConfig(cfg *config.Config, svc ports.TUIService) (*Host, error) {
	reg := NewRegistry()
	for _, t := range []Tab{
		NewUploader(cfg, svc).Tab(),
		NewHistoryTab(cfg, svc).Tab(),
	} {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return NewHost(reg), nil
}

// NewAppWithService loads the config through svc and builds the host.
func NewAppWithService(svc ports.TUIService) (*Host, error) {
	cfg, err := svc.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return NewAppWithConfig(cfg, svc)
}

// Run starts the TUI
func Run(svc ports.TUIService) error {
	m, err := NewAppWithService(svc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
