package conversation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var severityStyles = map[domain.Severity]lipgloss.Style{
	domain.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#bae6fd")),
	domain.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0")),
	domain.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#fde68a")),
	domain.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5")).Bold(true),
}

var severityIcons = map[domain.Severity]string{
	domain.SeverityInfo:    "·",
	domain.SeveritySuccess: "✓",
	domain.SeverityWarning: "!",
	domain.SeverityError:   "✗",
}

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes status lines to the terminal, colored by severity.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	last    func(text string, severity domain.Severity)
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// OnStatus registers a hook called after every status line, e.g. to
// mirror the latest message into a status bar.
func (n *CLINotifier) OnStatus(fn func(text string, severity domain.Severity)) {
	n.last = fn
}

// Status prints a message styled for its severity.
func (n *CLINotifier) Status(_ context.Context, text string, severity domain.Severity) error {
	n.log.Debug("status[%s]: %s", severity, text)
	style, ok := severityStyles[severity]
	if !ok {
		style = severityStyles[domain.SeverityInfo]
	}
	n.printFn("%s", style.Render("  "+severityIcons[severity]+" "+text))
	if n.last != nil {
		n.last(text, severity)
	}
	return nil
}
