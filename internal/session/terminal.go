package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shipdocs/internal/schema"
)

// Terminal control words. Empty input skips (optional fields only).
const pauseWord = "/pause"

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	fieldStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	requiredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle      = lipgloss.NewStyle().Faint(true)
	violationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// TerminalSource reads annotator answers line by line. It is the human
// implementation of ValueSource; tests use a scripted one instead.
type TerminalSource struct {
	in      *bufio.Scanner
	out     io.Writer
	lastDoc string
}

// NewTerminalSource wraps a reader/writer pair (normally stdin/stdout).
func NewTerminalSource(in io.Reader, out io.Writer) *TerminalSource {
	return &TerminalSource{in: bufio.NewScanner(in), out: out}
}

// Ask renders the prompt and blocks for one line of input. End of input
// behaves as a pause so a closed stdin never loses saved progress.
func (t *TerminalSource) Ask(p Prompt) (Answer, error) {
	if p.DocumentID != t.lastDoc {
		t.lastDoc = p.DocumentID
		fmt.Fprintf(t.out, "\n%s %s\n",
			headerStyle.Render(fmt.Sprintf("[%d/%d]", p.Position, p.Total)),
			headerStyle.Render(p.DocumentID))
		if p.SourcePath != "" {
			fmt.Fprintln(t.out, hintStyle.Render("  source: "+p.SourcePath))
		}
	}

	if p.Violation != nil {
		fmt.Fprintln(t.out, violationStyle.Render("  ✗ "+p.Violation.Message))
	}

	switch p.Kind {
	case PromptType:
		names := make([]string, len(p.Types))
		for i, dt := range p.Types {
			names[i] = string(dt)
		}
		fmt.Fprintf(t.out, "  %s %s\n", fieldStyle.Render("document type"),
			hintStyle.Render("("+strings.Join(names, ", ")+")"))
	case PromptNote:
		fmt.Fprintf(t.out, "  %s %s\n", fieldStyle.Render("note"),
			hintStyle.Render("(optional, enter to skip)"))
	default:
		label := fieldStyle.Render(p.Field.Name)
		if p.Field.Required {
			label += requiredStyle.Render(" *")
		}
		hint := string(p.Field.Kind)
		if p.Field.Constraint.Kind != schema.ConstraintNone && p.Field.Constraint.Kind != "" {
			hint += ", " + p.Field.Constraint.Describe()
		}
		fmt.Fprintf(t.out, "  %s %s\n", label, hintStyle.Render("("+hint+")"))
	}
	fmt.Fprint(t.out, "  > ")

	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return Answer{}, err
		}
		return Answer{Pause: true}, nil
	}

	line := strings.TrimSpace(t.in.Text())
	switch line {
	case pauseWord:
		return Answer{Pause: true}, nil
	case "":
		return Answer{Skip: true}, nil
	default:
		return Answer{Value: line}, nil
	}
}
