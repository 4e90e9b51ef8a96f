// Package terminal animates a playback in the terminal.
package terminal

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rkissoon/randomart/internal/app"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Messages carry the channel they came from so that frames of a replaced
// playback are dropped.
type frameMsg struct {
	frames <-chan app.Frame
	frame  app.Frame
}

type playbackEndedMsg struct{ frames <-chan app.Frame }

type playbackErrMsg struct{ err error }

// Model is a bubbletea model driving one Player.
type Model struct {
	ctx    context.Context
	title  string
	player *app.Player
	frames <-chan app.Frame
	frame  app.Frame

	// exitOnDone quits the program once the walk is fully revealed.
	exitOnDone bool
	err        error
}

// New creates a model for player. The playback starts when the program does.
func New(ctx context.Context, title string, player *app.Player, exitOnDone bool) Model {
	return Model{
		ctx:        ctx,
		title:      title,
		player:     player,
		frame:      player.Snapshot(),
		exitOnDone: exitOnDone,
	}
}

// Init starts the playback.
func (m Model) Init() tea.Cmd {
	return m.play
}

func (m Model) play() tea.Msg {
	frames, err := m.player.Play(m.ctx)
	if err != nil {
		return playbackErrMsg{err: err}
	}
	return playbackStartedMsg{frames: frames}
}

type playbackStartedMsg struct{ frames <-chan app.Frame }

func waitForFrame(frames <-chan app.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return playbackEndedMsg{frames: frames}
		}
		return frameMsg{frames: frames, frame: f}
	}
}

// Update handles frames from the player and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.player.Stop()
			return m, tea.Quit
		case "r":
			return m, m.play
		}
	case playbackStartedMsg:
		m.frames = msg.frames
		m.frame = m.player.Snapshot()
		return m, waitForFrame(m.frames)
	case frameMsg:
		if msg.frames != m.frames {
			return m, nil
		}
		m.frame = msg.frame
		return m, waitForFrame(m.frames)
	case playbackEndedMsg:
		if msg.frames == m.frames && m.frame.Done && m.exitOnDone {
			return m, tea.Quit
		}
	case playbackErrMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// View draws the grid with the cursor highlighted.
func (m Model) View() string {
	var sb strings.Builder
	for y, row := range m.frame.Grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x, cell := range row {
			if m.frame.Cursor.X == x && m.frame.Cursor.Y == y {
				glyph := cell
				if glyph == " " {
					glyph = "·"
				}
				sb.WriteString(cursorStyle.Render(glyph))
				continue
			}
			sb.WriteString(cellStyle.Render(cell))
		}
	}

	status := fmt.Sprintf("%d/%d %s", m.frame.Index, m.frame.Total, m.player.Status())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.title,
		frameStyle.Render(sb.String()),
		helpStyle.Render(status+"  r replay  q quit"),
	) + "\n"
}
