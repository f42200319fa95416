package preview

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/popframe/internal/infrastructure/config"
)

// Program runs a Model in the terminal.
type Program struct {
	model *Model
	tea   *tea.Program
	ctx   context.Context
}

// NewProgram builds the model and a full-screen program with mouse
// tracking. Canceling ctx stops the program.
func NewProgram(ctx context.Context, doc *Document, opts Options, teaOpts ...tea.ProgramOption) (*Program, error) {
	if opts.Scheduler != nil {
		return nil, errors.New("preview program schedules on its own loop")
	}
	m, err := New(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	teaOpts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	}, teaOpts...)
	p := tea.NewProgram(m, teaOpts...)
	m.queue.attach(p.Send)

	return &Program{model: m, tea: p, ctx: ctx}, nil
}

// Run blocks until the user quits or the context is canceled.
func (p *Program) Run() error {
	defer p.model.Close()

	_, err := p.tea.Run()
	if errors.Is(err, tea.ErrProgramKilled) && p.ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run preview: %w", err)
	}
	return nil
}

// ApplyConfig hands a reloaded configuration to the running model.
func (p *Program) ApplyConfig(cfg *config.Config) {
	p.tea.Send(configMsg{cfg: cfg})
}
