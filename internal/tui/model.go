package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qarag/internal/domain"
)

// QAPort is the TUI-facing subset of the query pipeline.
type QAPort interface {
	Ask(ctx context.Context, query string, topK int) (*domain.AskResult, error)
	RecordFeedback(question, answer, feedback string) error
}

type answerMsg struct {
	query  string
	result *domain.AskResult
}

type errMsg struct{ err error }

// Model is the Bubble Tea model for the interactive query loop.
type Model struct {
	service         QAPort
	input           textinput.Model
	viewport        viewport.Model
	topK            int
	status          string
	lastQuery       string
	lastAnswer      string
	waiting         bool
	pendingFeedback bool
	ready           bool
}

// New creates a new TUI model instance.
func New(service QAPort, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, topK: topK, status: "Corpus loaded. Ask away."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		return m, nil
	case answerMsg:
		m.waiting = false
		m.lastQuery = msg.query
		m.lastAnswer = msg.result.Answer
		m.pendingFeedback = true
		m.status = "Was this answer helpful? (y/n, esc to skip)"
		m.viewport.SetContent(renderResult(msg.result))
		m.viewport.GotoTop()
		return m, nil
	case errMsg:
		m.waiting = false
		m.pendingFeedback = false
		m.status = "Error: " + msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.pendingFeedback {
			switch msg.String() {
			case "y", "n":
				label := "yes"
				if msg.String() == "n" {
					label = "no"
				}
				m.pendingFeedback = false
				if err := m.service.RecordFeedback(m.lastQuery, m.lastAnswer, label); err != nil {
					m.status = "Error saving feedback: " + err.Error()
				} else {
					m.status = "Feedback saved. Thank you!"
				}
				return m, nil
			case "esc":
				m.pendingFeedback = false
				m.status = "Feedback skipped."
				return m, nil
			}
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.pendingFeedback = false
				m.status = fmt.Sprintf("Answering %q...", q)
				return m, askCmd(m.service, q, m.topK)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Q&A Retrieval")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	answer := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + answer + "\n" + input + "\n" + status
}

func askCmd(service QAPort, query string, topK int) tea.Cmd {
	return func() tea.Msg {
		result, err := service.Ask(context.Background(), query, topK)
		if err != nil {
			return errMsg{err}
		}
		return answerMsg{query: query, result: result}
	}
}

func renderResult(result *domain.AskResult) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Summarized Answer"))
	b.WriteString("\n")
	b.WriteString(result.Answer)
	if len(result.Records) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sectionStyle.Render("Supporting blocks"))
		for i, r := range result.Records {
			b.WriteString(fmt.Sprintf("\n\nRank %d  id=%d  score=%.3f\n%s\n%s", i+1, r.Record.ID, r.Score, r.Record.Question, r.Record.Answer))
			if len(r.Record.Links) > 0 {
				b.WriteString("\nLinks: " + strings.Join(r.Record.Links, ", "))
			}
		}
	}
	return b.String()
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sectionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
