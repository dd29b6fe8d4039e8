package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/jcowell/sift/internal/engine"
	"github.com/jcowell/sift/internal/match"
	"github.com/jcowell/sift/internal/model"
)

// Prompter is the plain-terminal approval gate. It renders one transaction
// at a time and blocks on stdin for the decision.
type Prompter struct {
	writer      io.Writer
	reader      *NonBlockingReader
	progressBar *progressbar.ProgressBar
	progressMu  sync.Mutex
}

// NewPrompter creates a prompter reading decisions from reader and rendering
// to writer. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		writer: writer,
		reader: NewNonBlockingReader(reader),
	}
}

// Review presents one transaction and blocks until the user decides.
// Pressing Enter accepts the preselected suggestion when there is one and
// skips otherwise.
func (p *Prompter) Review(ctx context.Context, approval model.Approval) (model.Decision, error) {
	if err := ctx.Err(); err != nil {
		return model.Decision{}, err
	}

	p.clearProgress()

	content := p.formatTransaction(approval)
	if _, err := fmt.Fprintln(p.writer, RenderBox("Transaction", content)); err != nil {
		return model.Decision{}, fmt.Errorf("failed to write transaction box: %w", err)
	}

	if err := p.writeOptions(approval); err != nil {
		return model.Decision{}, err
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Decision")); err != nil {
			return model.Decision{}, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, ErrInputCancelled) || ctx.Err() != nil {
				return model.Decision{}, context.Canceled
			}
			return model.Decision{}, fmt.Errorf("failed to read decision: %w", err)
		}

		decision, ok, err := p.parseDecision(ctx, strings.ToLower(line), approval)
		if err != nil {
			return model.Decision{}, err
		}
		if ok {
			return decision, nil
		}
	}
}

// parseDecision maps one input line to a decision. The second return is
// false when the input was invalid and the prompt should repeat.
func (p *Prompter) parseDecision(ctx context.Context, input string, approval model.Approval) (model.Decision, bool, error) {
	switch input {
	case "":
		if approval.PreselectedID != 0 {
			return model.Decision{Action: model.DecisionCommit, CategoryID: approval.PreselectedID}, true, nil
		}
		return model.Decision{Action: model.DecisionSkip}, true, nil
	case "s":
		return model.Decision{Action: model.DecisionSkip}, true, nil
	case "x", "q":
		return model.Decision{Action: model.DecisionCancel}, true, nil
	case "c":
		return p.promptCategoryName(ctx, approval)
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(approval.Suggestions) {
			return model.Decision{Action: model.DecisionCommit, CategoryID: approval.Suggestions[n-1].CategoryID}, true, nil
		}
		p.println(FormatError(fmt.Sprintf("No suggestion numbered %d", n)))
		return model.Decision{}, false, nil
	}

	p.println(FormatError("Enter a suggestion number, c, s, or x"))
	return model.Decision{}, false, nil
}

// promptCategoryName asks for a category by name and resolves it against the
// canonical list. A fuzzy match is accepted but called out.
func (p *Prompter) promptCategoryName(ctx context.Context, approval model.Approval) (model.Decision, bool, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt("Category name")); err != nil {
		return model.Decision{}, false, fmt.Errorf("failed to write prompt: %w", err)
	}

	name, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, ErrInputCancelled) || ctx.Err() != nil {
			return model.Decision{}, false, context.Canceled
		}
		return model.Decision{}, false, fmt.Errorf("failed to read category name: %w", err)
	}

	m, ok := match.Resolve(name, approval.Categories)
	if !ok {
		p.println(FormatError(fmt.Sprintf("No category matches %q", name)))
		return model.Decision{}, false, nil
	}
	if m.Fuzzy {
		p.println(FormatWarning(fmt.Sprintf("Using closest match for %q", name)))
	}

	return model.Decision{Action: model.DecisionCommit, CategoryID: m.CategoryID}, true, nil
}

// formatTransaction renders the box body for one approval.
func (p *Prompter) formatTransaction(approval model.Approval) string {
	txn := approval.Transaction

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Merchant: %s\n", txn.Merchant()))
	b.WriteString(fmt.Sprintf("Amount:   %s\n", formatDisplayAmount(txn)))
	b.WriteString(fmt.Sprintf("Date:     %s", txn.Date.Format("2006-01-02")))
	if txn.Notes != "" {
		b.WriteString(fmt.Sprintf("\nNotes:    %s", txn.Notes))
	}

	if approval.SuggestionErr != "" {
		b.WriteString("\n\n" + FormatWarning("Suggestions unavailable: "+approval.SuggestionErr))
	}

	if len(approval.Suggestions) > 0 {
		b.WriteString("\n")
		for i, s := range approval.Suggestions {
			b.WriteString("\n" + formatSuggestion(i+1, s))
		}
	}

	return b.String()
}

// formatSuggestion renders one numbered suggestion line.
func formatSuggestion(n int, s model.AnnotatedSuggestion) string {
	label := fmt.Sprintf("[%d] %s", n, s.Name)
	if s.Confidence != nil {
		label += SubtleStyle.Render(fmt.Sprintf(" (%s, %.0f%%)", s.Bucket, *s.Confidence*100))
	}
	if s.Justification != "" {
		label += "\n    " + SubtleStyle.Render(s.Justification)
	}
	return label
}

func (p *Prompter) writeOptions(approval model.Approval) error {
	var lines []string
	if len(approval.Suggestions) > 0 {
		lines = append(lines, fmt.Sprintf("  [1-%d] Apply a suggestion (Enter applies [1])", len(approval.Suggestions)))
	} else {
		lines = append(lines, "  [Enter] Skip")
	}
	lines = append(lines,
		"  [c] Choose a category by name",
		"  [s] Skip this transaction",
		"  [x] Stop the run",
	)

	if _, err := fmt.Fprintln(p.writer, strings.Join(lines, "\n")+"\n"); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}

// formatDisplayAmount matches the direction convention of the model prompt:
// negative amounts are credits, everything else debits.
func formatDisplayAmount(txn model.Transaction) string {
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

// Event prints a styled status line from the running batch.
func (p *Prompter) Event(e engine.Event) {
	var msg string
	switch e.Level {
	case engine.LevelOK:
		msg = FormatSuccess(e.Message)
	case engine.LevelWarn:
		msg = FormatWarning(e.Message)
	case engine.LevelError:
		msg = FormatError(e.Message)
	default:
		msg = FormatInfo(e.Message)
	}
	p.println(msg)
}

// Progress draws or advances the batch progress bar.
func (p *Prompter) Progress(progress engine.Progress) {
	p.progressMu.Lock()
	defer p.progressMu.Unlock()

	if p.progressBar == nil {
		p.progressBar = progressbar.NewOptions(progress.Total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionSetDescription("Reviewing"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
		)
	}
	if err := p.progressBar.Set(progress.Completed); err != nil {
		slog.Warn("failed to update progress bar", "error", err)
	}
	p.println("")
}

// clearProgress finishes the bar line so the next box starts clean.
func (p *Prompter) clearProgress() {
	p.progressMu.Lock()
	defer p.progressMu.Unlock()
	if p.progressBar != nil {
		p.println("")
	}
}

func (p *Prompter) println(s string) {
	if _, err := fmt.Fprintln(p.writer, s); err != nil {
		slog.Warn("failed to write output", "error", err)
	}
}
