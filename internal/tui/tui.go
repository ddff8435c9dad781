package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

type modelT struct {
	score  model.ScoreReport
	issues []model.Issue
	cursor int
}

func initialModel(score model.ScoreReport, issues []model.Issue) modelT {
	return modelT{score: score, issues: issues}
}

func (m modelT) Init() tea.Cmd { return nil }

func (m modelT) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.issues)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m modelT) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quality score: %.2f (penalty %.2f, %d LOC)\n", m.score.FinalScore, m.score.Penalty, m.score.LOC)
	fmt.Fprintf(&b, "Issues (%d)  [j/k to move, q to quit]\n\n", len(m.issues))
	for i, it := range m.issues {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		rule := it.RuleID
		if rule == "" {
			rule = "UNKNOWN"
		}
		fmt.Fprintf(&b, "%s%s:%s [%s] %s:%d %s\n", marker, it.Tool, rule, it.Severity, it.File, it.Line, it.Message)
	}
	return b.String()
}

// Run launches the interactive issue list for a completed scan.
func Run(score model.ScoreReport, issues []model.Issue) error {
	p := tea.NewProgram(initialModel(score, issues))
	_, err := p.Run()
	return err
}
