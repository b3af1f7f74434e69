// Package tui is the terminal Kanban board. It follows the Elm architecture of
// bubbletea: key presses and API results arrive as messages, Update feeds them
// to the board.Flow state machine, View renders the columns and the
// confirmation dialog.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Itish41/InnovationTracker/board"
	"github.com/Itish41/InnovationTracker/client"
	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/models"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// API is what the board needs from the server.
type API interface {
	ListInitiatives(ctx context.Context, opts client.ListOptions) ([]models.Initiative, error)
	board.Updater
}

type initiativesLoadedMsg struct {
	cards []board.Card
	err   error
}

type stageSavedMsg struct {
	pending board.Pending
	err     error
}

// Option customizes the Model.
type Option func(*Model)

// WithRequestTimeout bounds every API call made by the board.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// Model is the board's bubbletea model.
type Model struct {
	api     API
	flow    *board.Flow
	stages  []lifecycle.Stage
	comment textarea.Model
	spinner spinner.Model
	timeout time.Duration

	loading bool
	detail  string // last API error, shown under the banner
	col     int
	row     int
	width   int
	height  int
}

func New(api API, opts ...Option) *Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)
	ta.SetWidth(50)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		api:     api,
		flow:    board.NewFlow(api, nil),
		stages:  lifecycle.Stages(),
		comment: ta,
		spinner: sp,
		timeout: 10 * time.Second,
		loading: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Init fetches the board.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m *Model) fetch() tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		list, err := api.ListInitiatives(ctx, client.ListOptions{})
		if err != nil {
			return initiativesLoadedMsg{err: err}
		}
		return initiativesLoadedMsg{cards: toCards(list)}
	}
}

func (m *Model) persist(p board.Pending) tea.Cmd {
	flow, timeout := m.flow, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return stageSavedMsg{pending: p, err: flow.Persist(ctx, p)}
	}
}

func toCards(list []models.Initiative) []board.Card {
	cards := make([]board.Card, 0, len(list))
	for _, in := range list {
		cards = append(cards, board.Card{
			ID:            in.ID,
			Title:         in.Title,
			Category:      string(in.Category),
			Priority:      string(in.Priority),
			Stage:         in.CurrentStage,
			SubmitterName: in.SubmitterName,
		})
	}
	return cards
}

// Update is called when a message is received.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.comment.SetWidth(max(20, min(70, msg.Width-10)))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case initiativesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.flow.Fail(board.LoadFailedMessage)
			m.detail = msg.err.Error()
			return m, nil
		}
		m.flow.SetCards(msg.cards)
		m.detail = ""
		m.clampSelection()
		return m, nil

	case stageSavedMsg:
		resolveErr := m.flow.Resolve(msg.err)
		switch {
		case msg.err != nil:
			m.detail = msg.err.Error()
		case resolveErr == nil:
			m.selectCard(msg.pending.CardID)
		}
		m.comment.Blur()
		m.comment.Reset()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.flow.State() {
	case board.StateAwaitingConfirmation:
		return m.handleDialogKey(msg)
	case board.StatePersisting:
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.fetch()
	case "x", "esc":
		m.flow.Dismiss()
		m.detail = ""
	case "left", "h":
		m.moveSelection(-1, 0)
	case "right", "l":
		m.moveSelection(1, 0)
	case "up", "k":
		m.moveSelection(0, -1)
	case "down", "j":
		m.moveSelection(0, 1)
	case "shift+left", "<":
		return m, m.propose(m.col - 1)
	case "shift+right", ">":
		return m, m.propose(m.col + 1)
	case "1", "2", "3", "4":
		return m, m.propose(int(msg.String()[0] - '1'))
	}
	return m, nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.flow.Cancel()
		m.comment.Blur()
		m.comment.Reset()
		return m, nil
	case "enter":
		pending, err := m.flow.Confirm()
		if err != nil {
			return m, nil
		}
		m.comment.Blur()
		return m, m.persist(pending)
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	m.flow.SetComment(m.comment.Value())
	return m, cmd
}

// propose drops the selected card on column target. Columns outside the board
// and the card's own column are ignored by the flow.
func (m *Model) propose(target int) tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}
	to := lifecycle.Stage("")
	if target >= 0 && target < len(m.stages) {
		to = m.stages[target]
	}
	if !m.flow.Drop(card.ID, to) {
		return nil
	}
	p := m.flow.Proposal()
	if p.Classification.CommentRequired {
		m.comment.Placeholder = "Please provide a reason for this transition..."
	} else {
		m.comment.Placeholder = "Add an optional comment about this transition..."
	}
	m.comment.Reset()
	return m.comment.Focus()
}

func (m *Model) selected() (board.Card, bool) {
	cards := m.flow.Column(m.stages[m.col])
	if m.row < 0 || m.row >= len(cards) {
		return board.Card{}, false
	}
	return cards[m.row], true
}

func (m *Model) moveSelection(dc, dr int) {
	m.col = (m.col + dc + len(m.stages)) % len(m.stages)
	m.row += dr
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.flow.Column(m.stages[m.col]))
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *Model) selectCard(id uint) {
	for ci, stage := range m.stages {
		for ri, c := range m.flow.Column(stage) {
			if c.ID == id {
				m.col, m.row = ci, ri
				return
			}
		}
	}
	m.clampSelection()
}

// View renders the board.
func (m *Model) View() string {
	var sections []string

	header := titleStyle.Render("Innovation Board") + "  " +
		subtleStyle.Render(fmt.Sprintf("%d initiatives", len(m.flow.Cards())))
	sections = append(sections, header)

	if banner := m.flow.Banner(); banner != "" {
		sections = append(sections, m.renderBanner(banner))
	}

	switch {
	case m.loading:
		sections = append(sections, m.spinner.View()+" Loading initiatives...")
	case m.flow.State() == board.StateAwaitingConfirmation || m.flow.State() == board.StatePersisting:
		sections = append(sections, m.renderDialog())
	default:
		sections = append(sections, m.renderColumns())
	}

	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderBanner(banner string) string {
	lines := []string{errorTextStyle.Bold(true).Render("Error"), banner}
	if m.detail != "" {
		lines = append(lines, subtleStyle.Render(m.detail))
	}
	lines = append(lines, helpStyle.Render("[r] Try Again  [x] Dismiss"))
	return bannerStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) columnWidth() int {
	if m.width == 0 {
		return 28
	}
	return max(18, m.width/len(m.stages)-2)
}

func (m *Model) renderColumns() string {
	width := m.columnWidth()
	columns := make([]string, 0, len(m.stages))
	for ci, stage := range m.stages {
		cards := m.flow.Column(stage)
		lines := []string{
			titleStyle.Render(fmt.Sprintf("%d. %s (%d)", ci+1, stage.Label(), len(cards))),
			subtleStyle.Render(stageDescriptions[stage]),
		}
		for ri, c := range cards {
			style := cardStyle
			if ci == m.col && ri == m.row {
				style = selectedCardStyle
			}
			lines = append(lines, style.Width(width-4).Render(renderCard(c, width-6)))
		}
		if len(cards) == 0 {
			lines = append(lines, subtleStyle.Render("No initiatives"))
		}

		style := columnStyle
		if ci == m.col {
			style = activeColumnStyle
		}
		columns = append(columns, style.Width(width).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderCard(c board.Card, width int) string {
	lines := []string{truncate(c.Title, width)}
	meta := strings.TrimSpace(c.Category + " · " + c.Priority)
	lines = append(lines, subtleStyle.Render(truncate(meta, width)))
	if c.SubmitterName != "" {
		lines = append(lines, subtleStyle.Render(truncate(c.SubmitterName, width)))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func (m *Model) renderDialog() string {
	p := m.flow.Proposal()
	if p == nil {
		return ""
	}
	c := p.Classification

	title := "Move Initiative to New Stage?"
	if c.IsBackward {
		title = "Move Initiative Backward?"
	}
	lines := []string{
		titleStyle.Render(title),
		"",
		lipgloss.NewStyle().Bold(true).Render(p.Card.Title),
		fmt.Sprintf("From: %s → %s", c.From.Label(), c.To.Label()),
		"",
	}
	switch {
	case c.IsBackward:
		lines = append(lines, warningStyle.Render("Warning: Moving backward is unusual. Please provide a reason."), "")
	case c.IsSkipping:
		lines = append(lines, noteStyle.Render("Note: You're skipping stages. Please explain why."), "")
	}

	label := "Justification"
	if c.CommentRequired {
		label += fmt.Sprintf(" * (min %d characters)", lifecycle.MinCommentLength)
	}
	lines = append(lines, label, m.comment.View())

	switch {
	case p.Error != "":
		lines = append(lines, errorTextStyle.Render(p.Error))
	case c.CommentRequired && p.Comment != "":
		n := len([]rune(strings.TrimSpace(p.Comment)))
		counter := fmt.Sprintf("%d / %d characters", n, lifecycle.MinCommentLength)
		if n >= lifecycle.MinCommentLength {
			counter = okTextStyle.Render(counter)
		} else {
			counter = subtleStyle.Render(counter)
		}
		lines = append(lines, counter)
	}

	if m.flow.State() == board.StatePersisting {
		lines = append(lines, "", m.spinner.View()+" Saving...")
	}
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelp() string {
	switch m.flow.State() {
	case board.StateAwaitingConfirmation:
		return helpStyle.Render("enter confirm · esc cancel")
	case board.StatePersisting:
		return helpStyle.Render("saving...")
	}
	return helpStyle.Render("←/→ column · ↑/↓ card · shift+←/→ or 1-4 move · r refresh · q quit")
}
