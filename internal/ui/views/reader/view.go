package reader

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pagedomain "ereader/internal/modules/pagination/domain"
	readerdto "ereader/internal/modules/reader/dto"
	renderdomain "ereader/internal/modules/render/domain"
	"ereader/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the reader use-case.
type Port interface {
	Open(ctx context.Context, input readerdto.OpenInput) (readerdto.PageOutput, error)
	Turn(ctx context.Context, delta int) (readerdto.PageOutput, error)
	GoTo(ctx context.Context, page int) (readerdto.PageOutput, error)
	Relayout(ctx context.Context, input readerdto.RelayoutInput) (readerdto.PageOutput, error)
	Close(ctx context.Context) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// PageMsg is sent when an open, turn or relayout completes.
type PageMsg struct {
	Output readerdto.PageOutput
	Err    error
}

// DrawnMsg carries a committed page drawable.
type DrawnMsg struct {
	Token uint64
	Page  int
	Text  string
}

// ─── surface ─────────────────────────────────────────────────────────────────

// Surface forwards committed pages into a running program as DrawnMsg.
// Pages committed before Attach are dropped.
type Surface struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *Surface) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

func (s *Surface) Present(token renderdomain.Token, req renderdomain.Request, text string) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p == nil {
		return
	}
	p.Send(DrawnMsg{Token: uint64(token), Page: req.PageIndex, Text: text})
}

// ─── keys ────────────────────────────────────────────────────────────────────

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:  key.NewBinding(key.WithKeys("right", "l", " ", "pgdown"), key.WithHelp("→", "next page")),
		Prev:  key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←", "prev page")),
		First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.First, k.Last, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ─── model ───────────────────────────────────────────────────────────────────

// chrome is the number of rows taken by the header and the footer.
const chrome = 2

// Model pages through one document. The terminal is the display: one cell
// is one unit of the measurement context, so a resize re-paginates.
type Model struct {
	port    Port
	path    string
	base    pagedomain.MeasurementContext
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	page      readerdto.PageOutput
	drawn     string
	token     uint64
	requested bool
	loading   bool
	pending   *pagedomain.MeasurementContext
	err       error
	width     int
	height    int
}

// New creates a pager for path. base supplies everything but the display
// rectangle, which follows the terminal size.
func New(port Port, path string, base pagedomain.MeasurementContext) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		port:    port,
		path:    path,
		base:    base,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
	}
}

// Init is a no-op: the document opens once the terminal size is known.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		mc := m.contextFor(msg.Width, msg.Height)
		if err := mc.Validate(); err != nil {
			m.err = fmt.Errorf("terminal too small: %w", err)
			return m, nil
		}
		m.err = nil
		if m.loading {
			m.pending = &mc
			return m, nil
		}
		if !m.requested {
			m.requested = true
			m.loading = true
			return m, tea.Batch(m.openCmd(mc), m.spinner.Tick)
		}
		return m, m.relayoutCmd(mc)

	case PageMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Output.DocumentID != "" {
			m.page = msg.Output
			m.token = max(m.token, msg.Output.RenderToken)
		}
		if m.pending != nil {
			mc := *m.pending
			m.pending = nil
			return m, m.relayoutCmd(mc)
		}
		return m, nil

	case DrawnMsg:
		// Stale commits can still be queued behind a newer one.
		if msg.Token < m.token {
			return m, nil
		}
		m.token = msg.Token
		m.drawn = msg.Text
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quitCmd()
		case m.page.DocumentID == "":
			return m, nil
		case key.Matches(msg, m.keys.Next):
			return m, m.turnCmd(1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.turnCmd(-1)
		case key.Matches(msg, m.keys.First):
			return m, m.goToCmd(1)
		case key.Matches(msg, m.keys.Last):
			return m, m.goToCmd(m.page.PageCount)
		}
	}
	return m, nil
}

func (m Model) View() string {
	header := m.renderHeader()
	bodyH := max(m.height-chrome, 1)

	var body string
	switch {
	case m.loading:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Paginating…")
	case m.err != nil && m.drawn == "":
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			theme.Hot.Render("Error: "+m.err.Error()))
	default:
		body = theme.Page(m.width, bodyH).Render(m.drawn)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) contextFor(width, height int) pagedomain.MeasurementContext {
	return m.base.WithDisplay(width, height-chrome)
}

func (m Model) renderHeader() string {
	if m.page.DocumentID == "" {
		return theme.Title.Render("Reader") + theme.Muted.Render("  "+m.path)
	}
	return theme.Title.Render(m.page.DocumentID) + "  " +
		theme.Muted.Render(fmt.Sprintf("p.%d/%d  %.1f%%", m.page.Page, m.page.PageCount, m.page.Percent))
}

func (m Model) renderFooter() string {
	if m.err != nil && m.drawn != "" {
		return theme.Hot.Render(m.err.Error())
	}
	return m.help.View(m.keys)
}

func (m Model) openCmd(mc pagedomain.MeasurementContext) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Open(context.Background(), readerdto.OpenInput{Ref: m.path, Context: mc})
		return PageMsg{Output: out, Err: err}
	}
}

func (m Model) relayoutCmd(mc pagedomain.MeasurementContext) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Relayout(context.Background(), readerdto.RelayoutInput{Context: mc})
		return PageMsg{Output: out, Err: err}
	}
}

func (m Model) turnCmd(delta int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Turn(context.Background(), delta)
		return PageMsg{Output: out, Err: err}
	}
}

func (m Model) goToCmd(page int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.GoTo(context.Background(), page)
		return PageMsg{Output: out, Err: err}
	}
}

func (m Model) quitCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.port.Close(context.Background())
		return tea.Quit()
	}
}
