package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// confirmModel is a yes/no bubbletea model that defaults to no.
type confirmModel struct {
	question    string
	keys        keyMap
	help        help.Model
	answered    bool
	confirmed   bool
	interrupted bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question, keys: newKeyMap(), help: help.New()}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.interrupt):
		m.interrupted = true
	case key.Matches(keyMsg, m.keys.yes):
		m.confirmed = true
	case key.Matches(keyMsg, m.keys.no):
	default:
		return m, nil
	}

	m.answered = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.answered {
		answer := styles.muted.Render("no")
		if m.confirmed {
			answer = styles.warn.Render("yes")
		}
		return fmt.Sprintf("%s %s\n", m.question, answer)
	}
	return fmt.Sprintf("%s [y/N] \n%s\n", m.question, m.help.View(m.keys))
}

// Prompter confirms overwrites of existing files.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	reader      *bufio.Reader
	interactive bool
	cancel      context.CancelFunc
}

// NewPrompter reads answers from in and writes questions to out. cancel, if set, is called when the user
// interrupts with ctrl+c.
func NewPrompter(in io.Reader, out io.Writer, cancel context.CancelFunc) *Prompter {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return &Prompter{
		in:          in,
		out:         out,
		reader:      bufio.NewReader(in),
		interactive: interactive,
		cancel:      cancel,
	}
}

// ConfirmOverwrite asks whether path should be replaced. Anything but an explicit yes is a no.
func (p *Prompter) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	question := fmt.Sprintf("%s exists. Overwrite?", filepath.Base(path))
	if p.interactive {
		return p.confirmTUI(ctx, question)
	}
	return p.confirmLine(question)
}

func (p *Prompter) confirmTUI(ctx context.Context, question string) (bool, error) {
	program := tea.NewProgram(newConfirmModel(question),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, nil
	}
	if m.interrupted {
		if p.cancel != nil {
			p.cancel()
		}
		return false, context.Canceled
	}
	return m.confirmed, nil
}

func (p *Prompter) confirmLine(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	return parseAnswer(line), nil
}

func parseAnswer(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
