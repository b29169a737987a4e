// Package panel is a terminal preview target. It shows the text of the latest
// view in a scrollable viewport; quitting the program closes the target.
package panel

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/specpreview/pkg/render"
	"github.com/grovetools/specpreview/tui/theme"
)

// viewMsg delivers a new view to the model.
type viewMsg struct {
	view render.View
	at   time.Time
}

type keyMap struct {
	Quit   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "close")),
	Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
}

// Model is the bubbletea model of the panel.
type Model struct {
	title    string
	theme    *theme.Theme
	viewport viewport.Model
	ready    bool
	view     render.View
	updated  time.Time
	updates  int
	width    int
}

// NewModel creates the panel model.
func NewModel(title string, t *theme.Theme) Model {
	if t == nil {
		t = theme.DefaultTheme
	}
	return Model{title: title, theme: t}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - lipgloss.Height(m.headerView()) - lipgloss.Height(m.footerView())
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.body())
		return m, nil

	case viewMsg:
		m.view = msg.view
		m.updated = msg.at
		m.updates++
		if m.ready {
			m.viewport.SetContent(m.body())
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) body() string {
	if m.updates == 0 {
		return m.theme.Muted.Render("Loading specs...")
	}
	if m.view.IsError() {
		return m.theme.Error.Render(theme.IconError + " " + m.view.Text)
	}
	return strings.TrimSuffix(m.view.Text, "\n")
}

func (m Model) headerView() string {
	return m.theme.Header.Render(m.title)
}

func (m Model) footerView() string {
	status := m.theme.Muted.Render("waiting")
	if m.updates > 0 {
		icon := m.theme.Success.Render(theme.IconSuccess)
		if m.view.IsError() {
			icon = m.theme.Error.Render(theme.IconError)
		}
		status = fmt.Sprintf("%s updated %s", icon, m.updated.Format("15:04:05"))
	}
	if m.ready {
		status += m.theme.Muted.Render(fmt.Sprintf("  %3.f%%", m.viewport.ScrollPercent()*100))
	}
	help := m.theme.Muted.Render("  q close · g/G top/bottom")
	return m.theme.Status.Width(m.width).Render(status + help)
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), m.viewport.View(), m.footerView())
}

// Panel runs the model as a bubbletea program and acts as a preview sink.
type Panel struct {
	program *tea.Program
	closed  chan struct{}
	once    sync.Once
}

// New creates a panel. Run must be called to display it.
func New(title string, opts ...tea.ProgramOption) *Panel {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Panel{
		program: tea.NewProgram(NewModel(title, theme.DefaultTheme), opts...),
		closed:  make(chan struct{}),
	}
}

// Show implements preview.Sink. Views sent after the program exited are
// discarded.
func (p *Panel) Show(view render.View) error {
	p.program.Send(viewMsg{view: view, at: time.Now()})
	return nil
}

// Closed implements preview.Sink.
func (p *Panel) Closed() <-chan struct{} {
	return p.closed
}

// Run blocks until the user closes the panel or Quit is called.
func (p *Panel) Run() error {
	defer p.once.Do(func() { close(p.closed) })
	_, err := p.program.Run()
	return err
}

// Quit stops the program.
func (p *Panel) Quit() {
	p.program.Quit()
}
