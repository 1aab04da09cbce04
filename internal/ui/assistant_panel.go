package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/assistant"
)

// Asker answers a single prompt. *assistant.Client implements it.
type Asker interface {
	Ask(ctx context.Context, prompt string) (assistant.Answer, error)
}

// assistantReplyMsg carries the answer to a sent prompt.
type assistantReplyMsg struct {
	prompt string
	answer assistant.Answer
	err    error
}

// AssistantPanel is the show/hide chat sidebar. It holds one exchange at a
// time: sending a prompt replaces the previous reply.
type AssistantPanel struct {
	visible bool
	typing  bool
	input   []rune
	prompt  string // Last prompt sent
	reply   string
	pending bool
	err     error
	cached  bool
}

// Toggle shows or hides the panel. Hiding it also stops typing.
func (p AssistantPanel) Toggle() AssistantPanel {
	p.visible = !p.visible
	if !p.visible {
		p.typing = false
	}
	return p
}

// StartTyping focuses the input, showing the panel if needed.
func (p AssistantPanel) StartTyping() AssistantPanel {
	p.visible = true
	p.typing = true
	return p
}

// Visible reports whether the panel is shown.
func (p AssistantPanel) Visible() bool {
	return p.visible
}

// Typing reports whether keys go to the input.
func (p AssistantPanel) Typing() bool {
	return p.typing
}

// Input returns the unsent text.
func (p AssistantPanel) Input() string {
	return string(p.input)
}

// HandleKey edits the input. It returns the prompt to send when enter is
// pressed on a non-blank input; the input is cleared once sent.
func (p AssistantPanel) HandleKey(msg tea.KeyMsg) (AssistantPanel, string, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		p.typing = false
	case tea.KeyEnter:
		prompt := strings.TrimSpace(string(p.input))
		if prompt == "" || p.pending {
			return p, "", false
		}
		p.input = nil
		p.prompt = prompt
		p.reply = ""
		p.err = nil
		p.cached = false
		p.pending = true
		return p, prompt, true
	case tea.KeyBackspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case tea.KeySpace:
		p.input = append(p.input, ' ')
	case tea.KeyRunes:
		p.input = append(p.input, msg.Runes...)
	}
	return p, "", false
}

// SetReply records the outcome of the pending prompt.
func (p AssistantPanel) SetReply(ans assistant.Answer, err error) AssistantPanel {
	p.pending = false
	p.err = err
	p.reply = ans.Text
	p.cached = ans.Cached
	return p
}

// Reply returns the text shown in the reply area.
func (p AssistantPanel) Reply() string {
	switch {
	case p.pending:
		return "Thinking..."
	case p.err != nil:
		return "Error: " + p.err.Error()
	default:
		return p.reply
	}
}

// View renders the panel at the given width.
func (p AssistantPanel) View(width int) string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	replyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var lines []string
	lines = append(lines, titleStyle.Render("Assistant"), "")

	if p.prompt != "" {
		lines = append(lines, promptStyle.Width(inner).Render("> "+p.prompt), "")
	}

	switch {
	case p.err != nil && !p.pending:
		lines = append(lines, errorStyle.Width(inner).Render(p.Reply()))
	case p.Reply() != "":
		reply := p.Reply()
		if p.cached {
			reply += dimStyle.Render(" (cached)")
		}
		lines = append(lines, replyStyle.Width(inner).Render(reply))
	}

	lines = append(lines, "")
	input := string(p.input)
	if p.typing {
		input += "█"
		lines = append(lines, replyStyle.Width(inner).Render("» "+input))
		lines = append(lines, dimStyle.Render("enter: send | esc: done"))
	} else {
		lines = append(lines, dimStyle.Render("[i] ask  [a] hide"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("60")).
		Padding(0, 1).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// askCmd sends a prompt off the UI goroutine.
func askCmd(a Asker, prompt string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ans, err := a.Ask(ctx, prompt)
		return assistantReplyMsg{prompt: prompt, answer: ans, err: err}
	}
}
