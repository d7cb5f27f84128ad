// ABOUTME: Bubbletea model for the fortune audio TUI
// ABOUTME: Turns key, mouse and focus events into gestures and shows gate state
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lotsdraw/fortune-audio/pkg/audiogate"
	"github.com/lotsdraw/fortune-audio/pkg/narration"
)

const maxSoundKeys = 9

// Controller is what the TUI drives
type Controller interface {
	// Gesture reports a user interaction
	Gesture(kind audiogate.GestureKind)
	// Background is called when the terminal loses focus
	Background()
	PlaySound(ctx context.Context, name string) bool
	Narrate(ctx context.Context, text string) (*narration.Result, error)
	ToggleNarration(ctx context.Context) (bool, error)
	SaveNarration() (string, error)
	Status() audiogate.Status
	// Speaking reports whether a narration is audible
	Speaking() bool
}

// Model represents the TUI state
type Model struct {
	ctrl   Controller
	sounds []string
	text   string

	status    audiogate.Status
	focused   bool
	narrating bool
	speaking  bool
	last      *narration.Result
	message   string
	quitting  bool

	width  int
	height int
}

type tickMsg time.Time

type soundMsg struct {
	name   string
	played bool
}

type narrationMsg struct {
	result *narration.Result
	err    error
}

type toggleMsg struct {
	playing bool
	err     error
}

type savedMsg struct {
	path string
	err  error
}

// NewModel creates a TUI model. sounds are bound to the keys 1-9 in order
// and text is what n narrates.
func NewModel(ctrl Controller, sounds []string, text string) Model {
	if len(sounds) > maxSoundKeys {
		sounds = sounds[:maxSoundKeys]
	}
	return Model{
		ctrl:    ctrl,
		sounds:  sounds,
		text:    text,
		focused: true,
		status:  ctrl.Status(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease {
			m.ctrl.Gesture(audiogate.GestureClick)
			m.status = m.ctrl.Status()
		}

	case tea.BlurMsg:
		m.focused = false
		m.ctrl.Background()
		m.status = m.ctrl.Status()

	case tea.FocusMsg:
		// Resuming waits for the next gesture
		m.focused = true

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.status = m.ctrl.Status()
		m.speaking = m.ctrl.Speaking()
		return m, tickEvery()

	case soundMsg:
		if msg.played {
			m.message = fmt.Sprintf("Played %s", msg.name)
		} else {
			m.message = fmt.Sprintf("Queued %s until audio unlocks", msg.name)
		}
		m.status = m.ctrl.Status()

	case narrationMsg:
		m.narrating = false
		switch {
		case msg.err != nil:
			m.message = fmt.Sprintf("Narration failed: %v", msg.err)
		case msg.result == nil:
			m.message = "The master is silent (no audio)"
		default:
			m.last = msg.result
			m.speaking = true
			m.message = fmt.Sprintf("Narration ready (%s)", msg.result.Duration.Round(100*time.Millisecond))
		}

	case toggleMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Playback failed: %v", msg.err)
		}
		m.speaking = msg.playing

	case savedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Save failed: %v", msg.err)
		} else {
			m.message = fmt.Sprintf("Saved %s", msg.path)
		}
	}

	return m, nil
}

// handleKey handles keyboard input. Every key press counts as a gesture.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" || key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	m.ctrl.Gesture(audiogate.GestureKeyDown)
	m.status = m.ctrl.Status()

	switch key {
	case "n":
		if m.narrating {
			return m, nil
		}
		if m.text == "" {
			m.message = "Nothing to narrate"
			return m, nil
		}
		m.narrating = true
		m.message = "Consulting the master..."
		return m, m.narrateCmd()
	case "p":
		return m, m.toggleCmd()
	case "s":
		return m, m.saveCmd()
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		idx := int(key[0] - '1')
		if idx < len(m.sounds) {
			return m, m.soundCmd(m.sounds[idx])
		}
	}
	return m, nil
}

func (m Model) soundCmd(name string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return soundMsg{name: name, played: ctrl.PlaySound(context.Background(), name)}
	}
}

func (m Model) narrateCmd() tea.Cmd {
	ctrl, text := m.ctrl, m.text
	return func() tea.Msg {
		res, err := ctrl.Narrate(context.Background(), text)
		return narrationMsg{result: res, err: err}
	}
}

func (m Model) toggleCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		playing, err := ctrl.ToggleNarration(context.Background())
		return toggleMsg{playing: playing, err: err}
	}
}

func (m Model) saveCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		path, err := ctrl.SaveNarration()
		return savedMsg{path: path, err: err}
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	lockedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	unlockedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Closing the parlour...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Fortune Audio"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Audio:   "))
	if m.status.Unlocked {
		b.WriteString(unlockedStyle.Render("unlocked"))
	} else {
		b.WriteString(lockedStyle.Render("locked (press any key or click)"))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Output:  "))
	state := m.status.State
	if !m.focused {
		state += ", in background"
	}
	b.WriteString(valueStyle.Render(state))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Queued:  "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.status.Pending)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("Sounds (%d)", len(m.sounds))))
	b.WriteString("\n")
	if len(m.sounds) == 0 {
		b.WriteString(valueStyle.Render("  none configured"))
		b.WriteString("\n")
	}
	for i, name := range m.sounds {
		b.WriteString(fmt.Sprintf("  %d  %s\n", i+1, name))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Narration: "))
	b.WriteString(valueStyle.Render(m.narrationLine()))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("1-9:Sound  n:Narrate  p:Play/Stop  s:Save  q:Quit"))

	return b.String()
}

func (m Model) narrationLine() string {
	switch {
	case m.narrating:
		return "generating..."
	case m.last == nil:
		return "none"
	}
	state := "stopped"
	if m.speaking {
		state = "playing"
	}
	return fmt.Sprintf("%s, %s (%s)", truncate(m.last.Text, 40), m.last.Duration.Round(100*time.Millisecond), state)
}

func truncate(s string, length int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
