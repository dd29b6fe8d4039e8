package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"

	"github.com/jcowell/sift/internal/cli"
	"github.com/jcowell/sift/internal/engine"
	"github.com/jcowell/sift/internal/model"
)

// Prompter runs one bubbletea program per transaction and adapts the gate's
// resolution to an engine decision. Events and progress are printed between
// program runs, never while a gate is on screen.
type Prompter struct {
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	progressMu  sync.Mutex
}

// NewPrompter creates a TUI prompter. A nil writer defaults to stdout.
func NewPrompter(writer io.Writer) *Prompter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{writer: writer}
}

// Review presents one transaction full-screen and blocks until the gate
// resolves. Context cancellation kills the program and reports cancellation.
func (p *Prompter) Review(ctx context.Context, approval model.Approval) (model.Decision, error) {
	if err := ctx.Err(); err != nil {
		return model.Decision{}, err
	}

	program := tea.NewProgram(New(approval), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return model.Decision{}, context.Canceled
		}
		return model.Decision{}, fmt.Errorf("approval gate failed: %w", err)
	}

	gate, ok := final.(Model)
	if !ok {
		return model.Decision{}, fmt.Errorf("unexpected gate model %T", final)
	}

	decision, resolved := gate.Decision()
	if !resolved {
		// The program exited without a decision; treat it as cancellation
		// rather than inventing one.
		return model.Decision{}, context.Canceled
	}

	return decision, nil
}

// Event prints a styled status line between gate runs.
func (p *Prompter) Event(e engine.Event) {
	var msg string
	switch e.Level {
	case engine.LevelOK:
		msg = cli.FormatSuccess(e.Message)
	case engine.LevelWarn:
		msg = cli.FormatWarning(e.Message)
	case engine.LevelError:
		msg = cli.FormatError(e.Message)
	default:
		msg = cli.FormatInfo(e.Message)
	}
	if _, err := fmt.Fprintln(p.writer, msg); err != nil {
		slog.Warn("failed to write event", "error", err)
	}
}

// Progress draws or advances the batch progress bar.
func (p *Prompter) Progress(progress engine.Progress) {
	p.progressMu.Lock()
	defer p.progressMu.Unlock()

	if p.progressBar == nil {
		p.progressBar = progressbar.NewOptions(progress.Total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionSetDescription("Reviewing"),
			progressbar.OptionShowCount(),
		)
	}
	if err := p.progressBar.Set(progress.Completed); err != nil {
		slog.Warn("failed to update progress bar", "error", err)
	}
	if _, err := fmt.Fprintln(p.writer); err != nil {
		slog.Warn("failed to write output", "error", err)
	}
}
