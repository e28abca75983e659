// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/silver/internal/api"
	"github.com/nhath/silver/internal/config"
	"github.com/nhath/silver/internal/console"
	"github.com/nhath/silver/internal/history"
	"github.com/nhath/silver/internal/recent"
	"github.com/nhath/silver/internal/ui/components/clientselector"
	"github.com/nhath/silver/internal/ui/components/grid"
	"github.com/nhath/silver/internal/ui/components/historylist"
	"github.com/nhath/silver/internal/ui/components/popup"
	"github.com/nhath/silver/internal/ui/components/table"
	"github.com/nhath/silver/internal/ui/highlight"
)

// Backend is the query service the console talks to
type Backend interface {
	SearchClients(ctx context.Context, search string, limit int) ([]api.Client, error)
	ResolveConnection(ctx context.Context, clientID string) (*api.ResolveResponse, error)
	ExecuteQuery(ctx context.Context, req api.ExecuteRequest) (api.Result, error)
}

// Focus is the pane receiving keys
type Focus int

const (
	FocusSelector Focus = iota
	FocusEditor
	FocusResults
)

const (
	editorHeight = 6
	placeholder  = "Select a client and enter a SQL query to get started."
)

// Model is the root Bubble Tea model
type Model struct {
	width, height int
	config        *config.Config
	backend       Backend
	historyStore  *history.Store
	recent        recent.Store

	// Console state
	conn  *console.Connection
	query *console.Query
	focus Focus

	// Execution options, editable from the options popup
	maxRows        int
	timeoutSeconds int

	// Components
	selector clientselector.Model
	editor   textarea.Model
	grid     grid.Model
	spinner  spinner.Model

	// Popups
	popups         *PopupStack
	inspector      popup.Model
	help           popup.Model
	rowTable       bbtable.Model
	showRow        bool
	exportInput    textinput.Model
	showExport     bool
	optionInputs   []textinput.Model
	optionFocus    int
	optionsErr     string
	showOptions    bool
	historyList    historylist.Model
	historyFilter  textinput.Model
	historyTotal   int
	showHistory    bool
	tableStyles    table.Styles
	highlightStyle string

	// Status
	statusMsg string
	errorMsg  string
	statusID  int
}

// NewModel creates a new UI model. store and mru may be nil.
func NewModel(cfg *config.Config, backend Backend, store *history.Store, mru recent.Store) Model {
	InitStyles(cfg.Theme)

	ta := textarea.New()
	ta.Placeholder = "SELECT ..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.SetHeight(editorHeight)
	ta.SetWidth(80)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(textFaint)
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(textFaint)

	ei := textinput.New()
	ei.Prompt = "File: "
	ei.Placeholder = "query-results.csv"
	ei.CharLimit = 256
	ei.Width = 40

	newNumberInput := func(prompt string) textinput.Model {
		t := textinput.New()
		t.Prompt = prompt
		t.CharLimit = 9
		t.Width = 12
		return t
	}

	hf := textinput.New()
	hf.Prompt = "Filter: "
	hf.Placeholder = "part of a query"
	hf.CharLimit = 200
	hf.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(highlightColor)

	search := func(ctx context.Context, q string) ([]api.Client, error) {
		return backend.SearchClients(ctx, q, cfg.SearchLimit)
	}
	selector := clientselector.New(search, cfg.SearchDelay(), cfg.RequestTimeout(),
		clientselector.DefaultStyles(cfg.Theme))
	if mru != nil {
		selector = selector.SetRecent(mru.List())
	}
	selector, _ = selector.Focus()

	popupStyles := popup.DefaultStyles(cfg.Theme)

	return Model{
		config:         cfg,
		backend:        backend,
		historyStore:   store,
		recent:         mru,
		conn:           console.NewConnection(mru),
		query:          console.NewQuery(),
		focus:          FocusSelector,
		maxRows:        cfg.MaxRows,
		timeoutSeconds: cfg.TimeoutSeconds,
		selector:       selector,
		editor:         ta,
		grid:           grid.New(cfg.ColumnWidth, grid.DefaultStyles(cfg.Theme)),
		spinner:        sp,
		popups:         NewPopupStack(),
		inspector:      popup.New(popupStyles),
		help:           popup.New(popupStyles),
		exportInput:    ei,
		optionInputs:   []textinput.Model{newNumberInput("Max rows: "), newNumberInput("Timeout (s): ")},
		historyList: historylist.New(historylist.DefaultStyles(cfg.Theme)).
			SetHighlightFunc(func(s string) string { return highlight.SQL(s, cfg.SyntaxStyle) }),
		historyFilter:  hf,
		tableStyles:    table.DefaultStyles(cfg.Theme),
		highlightStyle: cfg.SyntaxStyle,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}
