package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// terminalNotifier prints notifications inline with the wizard.
type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) Notify(_ context.Context, kind ports.NotifyKind, message string) {
	mark := "✔"
	if kind == ports.NotifyError {
		mark = "✘"
	}
	fmt.Fprintf(n.out, "%s %s\n", mark, message)
}

// Session drives one wizard from line-based terminal input.
type Session struct {
	svc    *intake.Service
	id     string
	out    io.Writer
	render tui.Renderer
	logger *slog.Logger

	// MaxInput bounds one typed line; zero selects DefaultMaxInputSize.
	MaxInput int
}

// NewSession binds a terminal to the wizard identified by id.
func NewSession(svc *intake.Service, id string, out io.Writer, render tui.Renderer, logger *slog.Logger) *Session {
	if render == nil {
		render = tui.Plain
	}
	return &Session{svc: svc, id: id, out: out, render: render, logger: logger}
}

// Loop reads commands from in until the wizard closes, the user quits or
// input ends. It returns nil when the session ends normally.
func (s *Session) Loop(ctx context.Context, in io.Reader) error {
	if err := s.show(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := sanitizeInput(scanner.Text(), s.MaxInput)
		if err != nil {
			fmt.Fprintf(s.out, "! %v\n", err)
			continue
		}
		done, err := s.dispatch(ctx, parseCommand(line))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			s.logger.Debug("command failed", "session_id", s.id, "err", err)
			fmt.Fprintf(s.out, "! %v\n", err)
		}
		if done {
			return nil
		}
	}
}

// dispatch runs one command. done reports that the loop should stop.
func (s *Session) dispatch(ctx context.Context, cmd command) (done bool, err error) {
	switch cmd.name {
	case "":
		return false, nil
	case "help":
		return false, s.print(helpText)
	case "show":
		return false, s.show(ctx)
	case "next":
		return false, s.apply(ctx, func() (*domain.State, error) { return s.svc.Next(ctx, s.id) })
	case "back":
		return false, s.apply(ctx, func() (*domain.State, error) { return s.svc.Previous(ctx, s.id) })
	case "jump":
		if len(cmd.args) != 1 {
			return false, errors.New("usage: jump <step>")
		}
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidStep, cmd.args[0])
		}
		return false, s.apply(ctx, func() (*domain.State, error) { return s.svc.JumpTo(ctx, s.id, n) })
	case "set", "clear":
		return false, s.set(ctx, cmd)
	case "toggle":
		if len(cmd.args) < 2 {
			return false, errors.New("usage: toggle <path> <item>")
		}
		return false, s.apply(ctx, func() (*domain.State, error) {
			return s.svc.Toggle(ctx, s.id, cmd.args[0], cmd.rest)
		})
	case "estimate":
		est, err := s.svc.Estimate(ctx, s.id)
		if err != nil {
			return false, err
		}
		return false, s.print(tui.EstimateMarkdown(est))
	case "submit":
		state, err := s.svc.Submit(ctx, s.id)
		var subErr *domain.SubmissionError
		if errors.As(err, &subErr) {
			// The notifier already reported the failure; the wizard stays open for a retry.
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, s.printState(state)
	case "cancel":
		if err := s.svc.Cancel(ctx, s.id); err != nil {
			return false, err
		}
		printSystemMessage(s.out, "Wizard '%s' discarded.", s.id)
		return true, nil
	case "quit":
		printSystemMessage(s.out, "Session '%s' saved.", s.id)
		return true, nil
	}
	return false, fmt.Errorf("unknown command %q, type help", cmd.name)
}

func (s *Session) set(ctx context.Context, cmd command) error {
	switch {
	case cmd.name == "set" && len(cmd.args) < 2:
		return errors.New("usage: set <path> <value>")
	case len(cmd.args) < 1:
		return errors.New("usage: clear <path>")
	}
	state, err := s.svc.Load(ctx, s.id)
	if err != nil {
		return err
	}
	layout, err := s.svc.Layout(state.Layout)
	if err != nil {
		return err
	}
	f, err := layout.Field(cmd.args[0])
	if err != nil {
		return err
	}

	value := emptyValue(f)
	if cmd.name == "set" {
		if value, err = fieldValue(f, cmd.rest); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidValue, err)
		}
	}
	return s.apply(ctx, func() (*domain.State, error) { return s.svc.SetField(ctx, s.id, f.Path, value) })
}

func (s *Session) apply(_ context.Context, fn func() (*domain.State, error)) error {
	state, err := fn()
	if err != nil {
		return err
	}
	return s.printState(state)
}

func (s *Session) show(ctx context.Context) error {
	state, err := s.svc.Load(ctx, s.id)
	if err != nil {
		return err
	}
	return s.printState(state)
}

func (s *Session) printState(state *domain.State) error {
	view, err := s.svc.Render(state)
	if err != nil {
		return err
	}
	return s.print(tui.ViewMarkdown(view))
}

func (s *Session) print(markdown string) error {
	out, err := s.render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(s.out, out)
	return err
}
