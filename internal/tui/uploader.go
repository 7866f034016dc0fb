package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/ports"
)

const (
	// UploaderID is the registry ID of the uploader tab.
	UploaderID    = "folder_uploader"
	uploaderTitle = "Folder Uploader"
)

// Form focus positions
const (
	fieldFolder = iota
	fieldToken
	fieldRepo
	fieldButton
	fieldCount
)

// Uploader key bindings
type uploaderKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
}

var uploaderKeys = uploaderKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "upload"),
	),
}

// uploadDoneMsg carries the outcome of a finished upload. Every tab receives
// it.
type uploadDoneMsg struct {
	result ports.TUIUploadResult
}

// Uploader is the form tab that zips a folder and uploads it.
type Uploader struct {
	svc    ports.TUIService
	config *config.Config

	inputs  []textinput.Model
	focus   int
	spinner spinner.Model
	busy    bool

	status    string
	statusErr bool
}

// NewUploader creates the uploader tab.
func NewUploader(cfg *config.Config, svc ports.TUIService) *Uploader {
	folder := textinput.New()
	folder.Prompt = "> "
	folder.Placeholder = "/path/to/folder"
	folder.Width = 50

	token := textinput.New()
	token.Prompt = "> "
	token.Placeholder = "hf_... (empty uses the saved token)"
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'
	token.Width = 50

	repo := textinput.New()
	repo.Prompt = "> "
	repo.Placeholder = "username/repository_name"
	repo.Width = 50

	folder.Focus()

	return &Uploader{
		svc:     svc,
		config:  cfg,
		inputs:  []textinput.Model{folder, token, repo},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Tab wraps the uploader for registration.
func (u *Uploader) Tab() Tab {
	return Tab{ID: UploaderID, Title: uploaderTitle, Model: u}
}

// Busy reports whether an upload is in flight.
func (u *Uploader) Busy() bool { return u.busy }

// Status returns the current status line.
func (u *Uploader) Status() string { return u.status }

func (u *Uploader) Init() tea.Cmd {
	return textinput.Blink
}

func (u *Uploader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadDoneMsg:
		u.busy = false
		u.status = msg.result.Status
		u.statusErr = msg.result.Error != nil
		return u, nil

	case spinner.TickMsg:
		if !u.busy {
			return u, nil
		}
		var cmd tea.Cmd
		u.spinner, cmd = u.spinner.Update(msg)
		return u, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, uploaderKeys.Next):
			return u, u.setFocus(u.focus + 1)
		case key.Matches(msg, uploaderKeys.Prev):
			return u, u.setFocus(u.focus - 1)
		case key.Matches(msg, uploaderKeys.Submit):
			if u.focus == fieldButton || u.focus == fieldRepo {
				return u, u.submit()
			}
			return u, u.setFocus(u.focus + 1)
		}
	}

	if u.focus < len(u.inputs) {
		var cmd tea.Cmd
		u.inputs[u.focus], cmd = u.inputs[u.focus].Update(msg)
		return u, cmd
	}
	return u, nil
}

// setFocus moves focus to field i, wrapping around.
func (u *Uploader) setFocus(i int) tea.Cmd {
	u.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range u.inputs {
		if j == u.focus {
			cmd = u.inputs[j].Focus()
		} else {
			u.inputs[j].Blur()
		}
	}
	return cmd
}

// submit starts an upload unless one is already running.
func (u *Uploader) submit() tea.Cmd {
	if u.busy {
		return nil
	}
	u.busy = true
	u.statusErr = false
	u.status = "Uploading..."

	req := ports.TUIUploadRequest{
		Folder: strings.TrimSpace(u.inputs[fieldFolder].Value()),
		Token:  strings.TrimSpace(u.inputs[fieldToken].Value()),
		RepoID: strings.TrimSpace(u.inputs[fieldRepo].Value()),
	}
	svc, cfg := u.svc, u.config
	return tea.Batch(
		u.spinner.Tick,
		func() tea.Msg {
			return uploadDoneMsg{result: svc.Upload(cfg, req)}
		},
	)
}

func (u *Uploader) View() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Upload Folder to Hugging Face"))
	b.WriteString("\n\n")

	labels := []string{"Folder Path", "Hugging Face Token", "Repository ID"}
	for i, input := range u.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	button := buttonStyle.Render("Upload Folder")
	if u.focus == fieldButton {
		button = focusedButtonStyle.Render("Upload Folder")
	}
	b.WriteString(button)
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Status"))
	b.WriteString("\n")
	switch {
	case u.busy:
		b.WriteString(u.spinner.View() + " " + u.status)
	case u.status == "":
		b.WriteString(dimStyle.Render("-"))
	case u.statusErr:
		b.WriteString(errorBadge.Render(u.status))
	default:
		b.WriteString(successBadge.Render(u.status))
	}
	b.WriteString("\n")

	help := "[tab] next field  [enter] upload"
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}
