package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keynotes/keymap"
	"keynotes/notes"
)

// TUI message types
type StateMsg struct{ Snapshot notes.Snapshot }
type tickMsg time.Time

const pollInterval = 250 * time.Millisecond

// poll picks up changes made outside the ingestion loop, such as an HTTP
// clear.
type tuiModel struct {
	snap          notes.Snapshot
	err           error
	addr          string
	width, height int
	poll          func() (notes.Snapshot, error)
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	recStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	standbyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	boldHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	bufferStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

func NewTUIProgram(addr string, poll func() (notes.Snapshot, error)) *tea.Program {
	m := tuiModel{addr: addr, poll: poll}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		// Everything else typed here is captured globally already.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tickMsg:
		if m.poll != nil {
			m.snap, m.err = m.poll()
		}
		return m, tuiTick()

	case StateMsg:
		m.snap = msg.Snapshot
		m.err = nil
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	const leftWidth = 32
	rightWidth := max(m.width-leftWidth-1, 20)

	left := m.renderStatus()
	right := m.renderNotes(rightWidth - 2)

	leftPanel := lipgloss.NewStyle().
		Width(leftWidth).
		Height(m.height).
		PaddingLeft(1).
		Render(left)
	rightPanel := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height).
		PaddingLeft(1).
		Render(right)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

func (m tuiModel) renderStatus() string {
	var lines []string

	if m.err != nil {
		lines = append(lines, errStyle.Render("✗ "+m.err.Error()))
	} else if m.snap.Recording {
		lines = append(lines, recStyle.Render(fmt.Sprintf("● REC %d chars", len([]rune(m.snap.CurrentNote)))))
	} else {
		lines = append(lines, standbyStyle.Render("○ STANDBY"))
	}

	lines = append(lines, dimStyle.Render(fmt.Sprintf("%d note(s)", len(m.snap.Notes))))
	if m.addr != "" {
		lines = append(lines, dimStyle.Render("http://"+m.addr))
	}

	lines = append(lines, "")
	lines = append(lines, boldHelp.Render(keymap.ToggleKey.String())+helpStyle.Render(" start / stop"))
	lines = append(lines, boldHelp.Render(keymap.CancelKey.String())+helpStyle.Render(" cancel"))
	lines = append(lines, helpStyle.Render("keynotes "+version))

	return strings.Join(lines, "\n")
}

func (m tuiModel) renderNotes(wrapWidth int) string {
	var b strings.Builder

	if m.snap.Recording {
		b.WriteString(titleStyle.Render("Recording") + "\n\n")
		for _, line := range wrapText(m.snap.CurrentNote+"▏", wrapWidth) {
			b.WriteString(bufferStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if len(m.snap.Notes) == 0 {
		b.WriteString(standbyStyle.Render("No notes yet"))
		return b.String()
	}

	// newest last; drop the oldest when they do not fit
	var blocks [][]string
	used := strings.Count(b.String(), "\n")
	for i := len(m.snap.Notes) - 1; i >= 0; i-- {
		block := []string{titleStyle.Render(fmt.Sprintf("#%d", i+1))}
		block = append(block, wrapText(m.snap.Notes[i], wrapWidth)...)
		block = append(block, "")
		if used+len(block) > m.height && len(blocks) > 0 {
			break
		}
		used += len(block)
		blocks = append(blocks, block)
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		for j, line := range blocks[i] {
			if j > 0 && line != "" {
				line = noteStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// wrapText breaks text at spaces so no line exceeds width runes. Existing
// line breaks are kept.
func wrapText(text string, width int) []string {
	if width <= 0 {
		width = 1
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		r := []rune(para)
		for len(r) > width {
			splitAt := width
			for i := width; i > 0; i-- {
				if r[i] == ' ' {
					splitAt = i
					break
				}
			}
			lines = append(lines, string(r[:splitAt]))
			r = []rune(strings.TrimLeft(string(r[splitAt:]), " "))
		}
		lines = append(lines, string(r))
	}
	return lines
}
