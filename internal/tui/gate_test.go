package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcowell/sift/internal/model"
)

func testGateApproval() model.Approval {
	conf := 0.85
	return model.Approval{
		Transaction: model.Transaction{
			ID:     100,
			Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Payee:  "WHOLEFDS 10259",
			Amount: decimal.NewFromFloat(42.17),
		},
		Suggestions: []model.AnnotatedSuggestion{
			{Name: "Groceries", CategoryID: 1, Confidence: &conf, Bucket: model.BucketHigh},
			{Name: "Utilities", CategoryID: 3},
		},
		Categories: []model.Category{
			{ID: 1, Name: "Groceries"},
			{ID: 2, Name: "Gas, Transportation"},
			{ID: 3, Name: "Utilities"},
		},
		PreselectedID: 1,
	}
}

// present advances a fresh gate past its presenting phase.
func present(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(m.Init()())
	gate, ok := updated.(Model)
	require.True(t, ok)
	return gate
}

func press(t *testing.T, m Model, keyType tea.KeyType, runes ...rune) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: keyType, Runes: runes})
	gate, ok := updated.(Model)
	require.True(t, ok)
	return gate, cmd
}

func TestGateAcceptsFirstSuggestion(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	gate, cmd := press(t, gate, tea.KeyEnter)
	require.NotNil(t, cmd, "resolving must quit the program")

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionCommit, decision.Action)
	assert.Equal(t, 1, decision.CategoryID)
}

func TestGateNavigatesSuggestions(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	gate, _ = press(t, gate, tea.KeyDown)
	gate, _ = press(t, gate, tea.KeyEnter)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionCommit, decision.Action)
	assert.Equal(t, 3, decision.CategoryID)
}

func TestGateCursorStaysInBounds(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	gate, _ = press(t, gate, tea.KeyUp)
	gate, _ = press(t, gate, tea.KeyDown)
	gate, _ = press(t, gate, tea.KeyDown)
	gate, _ = press(t, gate, tea.KeyDown)
	gate, _ = press(t, gate, tea.KeyEnter)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, 3, decision.CategoryID, "cursor must clamp to the last suggestion")
}

func TestGateTogglesToCategoryList(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	gate, _ = press(t, gate, tea.KeyTab)
	gate, _ = press(t, gate, tea.KeyDown)
	gate, _ = press(t, gate, tea.KeyEnter)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionCommit, decision.Action)
	assert.Equal(t, 2, decision.CategoryID)
}

func TestGateSkip(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	gate, cmd := press(t, gate, tea.KeyRunes, 's')
	require.NotNil(t, cmd)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionSkip, decision.Action)
}

func TestGateCancel(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	gate, _ = press(t, gate, tea.KeyEsc)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionCancel, decision.Action)
}

func TestGateEnterSkipsWithoutSuggestions(t *testing.T) {
	approval := testGateApproval()
	approval.Suggestions = nil
	approval.PreselectedID = 0
	approval.SuggestionErr = "rate limited"

	gate := present(t, New(approval))
	gate, _ = press(t, gate, tea.KeyEnter)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionSkip, decision.Action,
		"without a preselected suggestion, Enter must not commit a category the user never chose")
}

func TestGateCommitsFromCategoryListAfterNavigation(t *testing.T) {
	approval := testGateApproval()
	approval.Suggestions = nil
	approval.PreselectedID = 0

	gate := present(t, New(approval))
	gate, _ = press(t, gate, tea.KeyDown)
	gate, _ = press(t, gate, tea.KeyEnter)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionCommit, decision.Action)
	assert.Equal(t, 2, decision.CategoryID)
}

func TestGateIgnoresInputWhilePresenting(t *testing.T) {
	gate := New(testGateApproval())

	gate, cmd := press(t, gate, tea.KeyEnter)
	assert.Nil(t, cmd)

	_, resolved := gate.Decision()
	assert.False(t, resolved, "input before presentation completes must not resolve")
}

func TestGateDecisionIsFinal(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	gate, _ = press(t, gate, tea.KeyRunes, 's')
	gate, _ = press(t, gate, tea.KeyEnter)

	decision, resolved := gate.Decision()
	require.True(t, resolved)
	assert.Equal(t, model.DecisionSkip, decision.Action, "a resolved gate must not change its decision")
}

func TestFormatAmountDirections(t *testing.T) {
	// Negative amounts are credits, non-negative debits, same as the
	// rendering the model sees.
	credit := model.Transaction{Amount: decimal.NewFromFloat(-2500.00)}
	assert.Equal(t, "2500.00 (credit)", formatAmount(credit))

	debit := model.Transaction{Amount: decimal.NewFromFloat(42.17), Currency: "usd"}
	assert.Equal(t, "42.17 (debit) USD", formatAmount(debit))
}

func TestGateViewShowsSuggestionDetails(t *testing.T) {
	gate := present(t, New(testGateApproval()))

	view := gate.View()
	assert.Contains(t, view, "WHOLEFDS 10259")
	assert.Contains(t, view, "42.17 (debit)")
	assert.Contains(t, view, "Groceries")
	assert.Contains(t, view, "85%")
}
