package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PhoneListView ViewState = iota
	PhoneDetailView
	HistoryView
)

const historyLimit = 20

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	catalog   services.Catalog
	sort      services.SortKey
	width     int
	height    int
	phoneList list.Model
	selected  *models.Phone
	runs      []*models.ImportRun
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model reading from catalog.
func NewModel(ctx context.Context, catalog services.Catalog) *Model {
	m := &Model{
		ctx:     ctx,
		view:    PhoneListView,
		catalog: catalog,
		sort:    services.SortName,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.phoneList = m.newList(nil)
	return m
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchPhones(m.sort)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.phoneList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && !m.filtering() {
			return m, tea.Quit
		}
		switch m.view {
		case PhoneListView:
			return m.handleListKeys(msg)
		case PhoneDetailView, HistoryView:
			return m.handleBackKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPhonesFetched:
		data := msg.data.(phonesFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.sort = data.sort
		cmd := m.phoneList.SetItems(phoneItems(data.phones))
		m.phoneList.Title = fmt.Sprintf("Phones by %s", m.sort.Label())
		return m, cmd

	case MsgPhoneFetched:
		data := msg.data.(phoneFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.selected = data.phone
		m.view = PhoneDetailView
		return m, nil

	case MsgHistoryFetched:
		data := msg.data.(historyFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.runs = data.runs
		m.view = HistoryView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case PhoneListView:
		body = m.renderList()
	case PhoneDetailView:
		body = m.renderDetail()
	case HistoryView:
		body = m.renderHistory()
	}

	if m.err != nil {
		body += "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return body
}

func (m *Model) filtering() bool {
	return m.view == PhoneListView && m.phoneList.FilterState() == list.Filtering
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering() {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.phoneList.SelectedItem().(phoneItem); ok {
			return m, m.fetchPhone(item.phone.Slug)
		}
		return m, nil
	case key.Matches(msg, m.keys.sort):
		return m, m.fetchPhones(m.sort.Next())
	case key.Matches(msg, m.keys.reload):
		return m, m.fetchPhones(m.sort)
	case key.Matches(msg, m.keys.history):
		return m, m.fetchHistory()
	}

	return m.updateList(msg)
}

func (m *Model) handleBackKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = PhoneListView
		m.selected = nil
		m.err = nil
		return m, m.fetchPhones(m.sort)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != PhoneListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.phoneList, cmd = m.phoneList.Update(msg)
	return m, cmd
}

func (m *Model) newList(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), m.width, m.height)
	l.Title = fmt.Sprintf("Phones by %s", m.sort.Label())
	l.SetShowHelp(false)
	return l
}

func (m *Model) fetchPhones(sort services.SortKey) tea.Cmd {
	return func() tea.Msg {
		phones, err := m.catalog.List(m.ctx, sort)
		return phonesFetchedMsg(sort, phones, err)
	}
}

func (m *Model) fetchPhone(slug string) tea.Cmd {
	return func() tea.Msg {
		phone, err := m.catalog.GetBySlug(m.ctx, slug)
		return phoneFetchedMsg(phone, err)
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		runs, err := m.catalog.ImportRuns(m.ctx, historyLimit)
		return historyFetchedMsg(runs, err)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.sort, m.keys.history, m.keys.reload, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.phoneList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	p := m.selected
	if p == nil {
		return ""
	}

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return styles.label.Render(label) + value
	}

	lte := "no"
	if p.LTEExists {
		lte = "yes"
	}

	lines := []string{
		styles.title.Render(p.Name),
		styles.label.Render("Price") + styles.price.Render(p.PriceString()),
		field("Slug", p.Slug),
		field("Image", p.Image),
		field("Released", p.ReleaseDateString()),
		field("LTE", lte),
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return strings.Join(lines, "\n") + "\n\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Recent imports"))
	b.WriteString("\n")

	if len(m.runs) == 0 {
		b.WriteString(styles.warn.Render("No imports yet."))
		b.WriteString("\n")
	}
	for _, r := range m.runs {
		b.WriteString(fmt.Sprintf("%s  %s\n", r.StartedAt.Local().Format(time.DateTime), r.Path))
		b.WriteString(styles.help.Render(fmt.Sprintf("    created %d • updated %d • skipped %d • %s",
			r.Created, r.Updated, r.Skipped, r.Duration().Round(time.Millisecond))))
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}
