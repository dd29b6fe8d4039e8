// Package tui implements the full-screen approval gate with bubbletea. One
// program run presents one transaction and resolves to one decision.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jcowell/sift/internal/model"
)

// gateState is the gate's lifecycle. Input is only accepted while awaiting a
// decision, and a resolved gate never changes its decision.
type gateState int

const (
	statePresenting gateState = iota
	stateAwaitingDecision
	stateResolved
)

// presentedMsg marks the end of the presenting phase.
type presentedMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7AA2F7"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9ECE6A"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0AF68"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// Model is the approval gate for a single transaction.
type Model struct {
	approval model.Approval
	keymap   KeyMap
	decision model.Decision
	state    gateState
	cursor   int
	browsing bool
	// navigated records that the user moved into the category list on
	// purpose. Only the top suggestion is ever preselected; a category is
	// committed only after deliberate navigation.
	navigated bool
	resolved  bool
	width     int
}

// New creates a gate for one approval. The cursor starts on the first
// suggestion when there is one.
func New(approval model.Approval) Model {
	return Model{
		approval: approval,
		keymap:   DefaultKeyMap(),
		state:    statePresenting,
		browsing: len(approval.Suggestions) == 0,
	}
}

// Init moves the gate from presenting to awaiting a decision.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return presentedMsg{} }
}

// Update handles messages and advances the gate.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case presentedMsg:
		if m.state == statePresenting {
			m.state = stateAwaitingDecision
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.state != stateAwaitingDecision {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		return m.resolve(model.Decision{Action: model.DecisionCancel})

	case key.Matches(msg, m.keymap.Skip):
		return m.resolve(model.Decision{Action: model.DecisionSkip})

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.navigated = true
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		m.navigated = true
		return m, nil

	case key.Matches(msg, m.keymap.Toggle):
		if len(m.approval.Suggestions) > 0 {
			m.browsing = !m.browsing
			m.cursor = 0
			m.navigated = true
		}
		return m, nil

	case key.Matches(msg, m.keymap.Accept):
		if !m.hasSelection() {
			return m.resolve(model.Decision{Action: model.DecisionSkip})
		}
		if id, ok := m.selectedCategoryID(); ok {
			return m.resolve(model.Decision{Action: model.DecisionCommit, CategoryID: id})
		}
		return m.resolve(model.Decision{Action: model.DecisionSkip})
	}

	return m, nil
}

// resolve locks in the decision and quits the program.
func (m Model) resolve(decision model.Decision) (tea.Model, tea.Cmd) {
	m.state = stateResolved
	m.decision = decision
	m.resolved = true
	return m, tea.Quit
}

// Decision returns the resolved decision. The second return is false when
// the gate was torn down before resolving.
func (m Model) Decision() (model.Decision, bool) {
	return m.decision, m.resolved
}

// hasSelection reports whether Enter has something to commit. The suggestion
// list always has its top entry preselected; the category list counts as
// selected only after the user navigated into it.
func (m Model) hasSelection() bool {
	return !m.browsing || m.navigated
}

func (m Model) listLen() int {
	if m.browsing {
		return len(m.approval.Categories)
	}
	return len(m.approval.Suggestions)
}

func (m Model) selectedCategoryID() (int, bool) {
	if m.browsing {
		if m.cursor < len(m.approval.Categories) {
			return m.approval.Categories[m.cursor].ID, true
		}
		return 0, false
	}
	if m.cursor < len(m.approval.Suggestions) {
		return m.approval.Suggestions[m.cursor].CategoryID, true
	}
	return 0, false
}

// View renders the transaction, the active list, and the help line.
func (m Model) View() string {
	if m.state == stateResolved {
		return ""
	}

	var b strings.Builder

	txn := m.approval.Transaction
	b.WriteString(titleStyle.Render(txn.Merchant()) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", formatAmount(txn), txn.Date.Format("2006-01-02")))
	if txn.Notes != "" {
		b.WriteString(subtleStyle.Render(txn.Notes) + "\n")
	}

	if m.approval.SuggestionErr != "" {
		b.WriteString("\n" + warnStyle.Render("Suggestions unavailable: "+m.approval.SuggestionErr) + "\n")
	}

	b.WriteString("\n" + m.renderList())
	b.WriteString(helpStyle.Render(renderHelp(m.keymap)))

	return boxStyle.Render(b.String())
}

func (m Model) renderList() string {
	var b strings.Builder

	if m.browsing {
		b.WriteString(subtleStyle.Render("All categories") + "\n")
		for i, c := range m.approval.Categories {
			b.WriteString(m.renderLine(i, c.Name, "") + "\n")
		}
		return b.String()
	}

	b.WriteString(subtleStyle.Render("Suggestions") + "\n")
	for i, s := range m.approval.Suggestions {
		detail := ""
		if s.Confidence != nil {
			detail = fmt.Sprintf("(%s, %.0f%%)", s.Bucket, *s.Confidence*100)
		}
		line := m.renderLine(i, s.Name, detail)
		if s.Justification != "" {
			line += "\n    " + subtleStyle.Render(s.Justification)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderLine(i int, name, detail string) string {
	marker := "  "
	style := lipgloss.NewStyle()
	if i == m.cursor && m.hasSelection() {
		marker = "> "
		style = selectedStyle
	}
	line := marker + name
	if detail != "" {
		line += " " + detail
	}
	return style.Render(line)
}

func renderHelp(k KeyMap) string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, binding := range k.ShortHelp() {
		parts = append(parts, binding.Help().Key+" "+binding.Help().Desc)
	}
	return strings.Join(parts, " · ")
}

// formatAmount matches the direction convention of the model prompt:
// negative amounts are credits, everything else debits.
func formatAmount(txn model.Transaction) string {
	direction := "debit"
	if txn.Amount.IsNegative() {
		direction = "credit"
	}
	amount := fmt.Sprintf("%s (%s)", txn.Amount.Abs().StringFixed(2), direction)
	if code := txn.CurrencyCode(); code != "" {
		amount += " " + strings.ToUpper(code)
	}
	return amount
}
