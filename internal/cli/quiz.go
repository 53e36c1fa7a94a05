package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/tatami/internal/presentation/tui"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
)

// QuizHost is what the interactive quiz needs from the library.
type QuizHost interface {
	ports.QuizService
	GetSequence(ctx context.Context, id string) (*domain.Sequence, error)
	OpenQuiz(ctx context.Context, sessionID, sequenceID string) (*domain.QuizView, bool, error)
}

// QuizOptions configures RunQuiz.
type QuizOptions struct {
	SequenceID string

	// SessionID names a resumable session. Empty runs a throwaway session
	// that is deleted on exit.
	SessionID string

	// Fresh discards SessionID before starting.
	Fresh bool

	// Rich renders markdown through glamour.
	Rich bool

	In  io.Reader
	Out io.Writer
}

const quizHelp = "Type an option number, [r]estart, [e]nd or [q]uit."

// RunQuiz drives a quiz on the terminal until the user quits, ends the
// quiz, the input is exhausted or ctx is cancelled.
func RunQuiz(ctx context.Context, host QuizHost, opts QuizOptions) error {
	view, err := openQuiz(ctx, host, opts)
	if err != nil {
		return err
	}
	sessionID := view.State.SessionID
	if opts.SessionID == "" {
		defer host.DeleteQuiz(context.WithoutCancel(ctx), sessionID)
	}

	render := tui.NewRenderer(opts.Rich)
	seq, err := host.GetSequence(ctx, view.State.SequenceID)
	if err != nil {
		return err
	}

	lines := readLines(ctx, opts.In)
	redraw := true
	for {
		if redraw {
			if err := printView(opts.Out, render, seq, view); err != nil {
				return err
			}
			if view.Finisher {
				printSystemMessage(opts.Out, "Finisher reached at '%s' node. [r]estart or [q]uit.", view.State.CurrentNodeID)
			}
		}

		fmt.Fprint(opts.Out, "> ")
		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(opts.Out)
				return nil
			}
			input = strings.ToLower(strings.TrimSpace(line))
		}

		next, done, err := dispatch(ctx, host, sessionID, input)
		switch {
		case errors.Is(err, domain.ErrInvalidChoice):
			printSystemMessage(opts.Out, "No option %s here. %s", input, quizHelp)
			redraw = false
			continue
		case err != nil:
			return err
		case done && next != nil:
			return printView(opts.Out, render, seq, next)
		case done:
			if opts.SessionID != "" {
				printSystemMessage(opts.Out, "Session '%s' saved at '%s' node.", sessionID, view.State.CurrentNodeID)
			}
			return nil
		case next == nil:
			if input != "" {
				printSystemMessage(opts.Out, quizHelp)
			}
			redraw = false
			continue
		}

		// The sequence may have been replaced since the last move.
		if latest, err := host.GetSequence(ctx, next.State.SequenceID); err == nil {
			seq = latest
		}
		view, redraw = next, true
	}
}

// RunSession runs an interactive quiz on the process terminal. Interrupts
// end the session cleanly; a named session stays resumable.
func RunSession(env *Env, opts QuizOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Rich {
		tui.PrintBanner(opts.Out)
	}

	err := RunQuiz(sigCtx, env.Library, opts)
	switch sig := sigCtx.Signal(); {
	case sig == os.Interrupt:
		fmt.Fprintln(opts.Out, "[CTRL+C]")
		printSystemMessage(opts.Out, "Interrupted.")
	case sig != nil:
		printSystemMessage(opts.Out, "Terminated.")
	}
	if err != nil && !isInterrupted(err) {
		env.Logger.Error("quiz failed", "err", err)
	}
	return handleExecutionError(err)
}

// dispatch applies one line of input. A nil view without done means the
// input was not a command.
func dispatch(ctx context.Context, host QuizHost, sessionID, input string) (*domain.QuizView, bool, error) {
	switch input {
	case "", "h", "help", "?":
		return nil, false, nil
	case "q", "quit", "exit":
		return nil, true, nil
	case "r", "restart":
		view, err := host.RestartQuiz(ctx, sessionID)
		return view, false, err
	case "e", "end":
		view, err := host.EndQuiz(ctx, sessionID)
		return view, err == nil, err
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return nil, false, nil
	}
	view, err := host.Choose(ctx, sessionID, n-1)
	return view, false, err
}

func openQuiz(ctx context.Context, host QuizHost, opts QuizOptions) (*domain.QuizView, error) {
	if opts.SessionID == "" {
		return host.StartQuiz(ctx, opts.SequenceID)
	}

	if opts.Fresh {
		if err := host.DeleteQuiz(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
	}

	view, resumed, err := host.OpenQuiz(ctx, opts.SessionID, opts.SequenceID)
	if err != nil {
		return nil, err
	}
	if resumed {
		printSystemMessage(opts.Out, "Resuming at '%s' node...", view.State.CurrentNodeID)
	} else {
		printSystemMessage(opts.Out, "Session '%s' active.", opts.SessionID)
	}
	return view, nil
}

func printView(w io.Writer, render tui.Renderer, seq *domain.Sequence, view *domain.QuizView) error {
	out, err := render(tui.QuizMarkdown(seq, view))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return nil
}

// readLines pumps r line by line so the prompt can also wait on ctx.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
