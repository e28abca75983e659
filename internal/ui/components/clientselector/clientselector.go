// Package clientselector provides the searchable client picker shown in the
// header. Keystrokes are coalesced: only the text present after a quiet
// period is sent to the backend, and responses to superseded searches are
// ignored.
package clientselector

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/config"
	"github.com/nhath/silver/internal/console"
	"github.com/nhath/silver/internal/ui/icons"
)

// SearchFunc fetches clients matching query
type SearchFunc func(ctx context.Context, query string) ([]api.Client, error)

// DebounceMsg fires when the quiet period of a keystroke has elapsed
type DebounceMsg struct {
	Seq uint64
}

// ResultsMsg carries the response to a search
type ResultsMsg struct {
	Seq     uint64
	Clients []api.Client
	Err     error
}

// SelectedMsg is sent when the selection changes. Client is nil when cleared.
type SelectedMsg struct {
	Client *api.Client
}

// Styles for the selector
type Styles struct {
	Input    lipgloss.Style
	List     lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Tag      lipgloss.Style
	ID       lipgloss.Style
	Hint     lipgloss.Style
	Spinner  lipgloss.Style
}

// DefaultStyles returns the default styling
func DefaultStyles(theme config.Theme) Styles {
	return Styles{
		Input: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextPrimary)),
		List: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Highlight)).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextSecondary)).
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(theme.Accent)).
			Foreground(lipgloss.Color(theme.Success)).
			Bold(true).
			PaddingLeft(1),
		Tag: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.BgPrimary)).
			Background(lipgloss.Color(theme.Highlight)).
			Padding(0, 1),
		ID: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)),
		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)).
			Italic(true),
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Highlight)),
	}
}

// Model represents the selector state
type Model struct {
	input    textinput.Model
	spinner  spinner.Model
	search   *console.Search
	searchFn SearchFunc
	timeout  time.Duration

	cursor   int
	open     bool
	settled  bool
	selected *api.Client
	recent   []string

	width  int
	styles Styles
}

// New creates a selector. timeout bounds each search request.
func New(searchFn SearchFunc, delay, timeout time.Duration, styles Styles) Model {
	ti := textinput.New()
	ti.Prompt = "Client: "
	ti.Placeholder = "search clients..."
	ti.CharLimit = 100
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Spinner

	return Model{
		input:    ti,
		spinner:  sp,
		search:   console.NewSearch(delay),
		searchFn: searchFn,
		timeout:  timeout,
		styles:   styles,
	}
}

// SetWidth sets the input width
func (m Model) SetWidth(w int) Model {
	m.width = w
	m.input.Width = max(w-lipgloss.Width(m.input.Prompt)-2, 10)
	return m
}

// SetRecent sets the recently used client ids shown while the box is empty
func (m Model) SetRecent(ids []string) Model {
	m.recent = ids
	return m
}

// Focus gives the selector keyboard focus
func (m Model) Focus() (Model, tea.Cmd) {
	m.open = true
	return m, m.input.Focus()
}

// Blur removes focus and closes the option list
func (m Model) Blur() Model {
	m.input.Blur()
	m.open = false
	return m
}

// Focused reports whether the selector has focus
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Selected returns the chosen client, nil when none
func (m Model) Selected() *api.Client {
	return m.selected
}

// Options returns the displayed options
func (m Model) Options() []api.Client {
	return m.search.Options()
}

// Loading reports whether a search is in flight
func (m Model) Loading() bool {
	return m.search.Loading()
}

// Clear drops the selection and the search text
func (m Model) Clear() (Model, tea.Cmd) {
	m.selected = nil
	m.input.SetValue("")
	m.search.Input("")
	m.cursor = 0
	m.settled = false
	return m, func() tea.Msg { return SelectedMsg{} }
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceMsg:
		query, ok := m.search.Fire(msg.Seq)
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.searchCmd(msg.Seq, query), m.spinner.Tick)

	case ResultsMsg:
		if m.search.Apply(msg.Seq, msg.Clients, msg.Err) {
			m.settled = true
			m.cursor = min(m.cursor, max(len(m.search.Options())-1, 0))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.search.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	options := m.search.Options()
	switch msg.String() {
	case "up", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "ctrl+j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
		return m, nil
	case "esc":
		m.open = false
		return m, nil
	case "enter":
		if m.cursor < 0 || m.cursor >= len(options) {
			return m, nil
		}
		client := options[m.cursor]
		m.selected = &client
		m.open = false
		m.input.SetValue("")
		m.search.Input("")
		m.settled = false
		return m, func() tea.Msg { return SelectedMsg{Client: &client} }
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()
	if after == before {
		return m, cmd
	}

	m.open = true
	m.cursor = 0
	m.settled = false
	seq, schedule := m.search.Input(strings.TrimSpace(after))
	if !schedule {
		return m, cmd
	}
	return m, tea.Batch(cmd, tea.Tick(m.search.Delay(), func(time.Time) tea.Msg {
		return DebounceMsg{Seq: seq}
	}))
}

func (m Model) searchCmd(seq uint64, query string) tea.Cmd {
	searchFn, timeout := m.searchFn, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		clients, err := searchFn(ctx, query)
		return ResultsMsg{Seq: seq, Clients: clients, Err: err}
	}
}

// View renders the input line
func (m Model) View() string {
	if !m.input.Focused() && m.selected != nil && m.input.Value() == "" {
		return m.styles.Input.Render(m.input.Prompt + m.selected.Name)
	}
	return m.styles.Input.Render(m.input.View())
}

// DropdownView renders the option list, empty when closed
func (m Model) DropdownView() string {
	if !m.open || !m.input.Focused() {
		return ""
	}

	var lines []string
	switch {
	case m.search.Text() == "":
		if len(m.recent) == 0 {
			return ""
		}
		lines = append(lines, m.styles.Hint.Render(icons.IconRecent+" Recent: "+strings.Join(m.recent, ", ")))
	case m.search.Loading():
		lines = append(lines, m.spinner.View()+m.styles.Hint.Render(" Searching..."))
	case len(m.search.Options()) == 0 && m.settled:
		lines = append(lines, m.styles.Hint.Render("No clients found"))
	case len(m.search.Options()) == 0:
		return ""
	default:
		for i, c := range m.search.Options() {
			lines = append(lines, m.renderOption(i, c))
		}
	}

	box := m.styles.List
	if m.width > 0 {
		box = box.Width(m.width)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m Model) renderOption(i int, c api.Client) string {
	label := c.Name
	if c.Tag != "" {
		label += " " + m.styles.Tag.Render(icons.IconTag+c.Tag)
	}
	label += " " + m.styles.ID.Render(c.ID)
	if i == m.cursor {
		return m.styles.Selected.Render(icons.IconSelect + " " + label)
	}
	return m.styles.Item.Render(label)
}
