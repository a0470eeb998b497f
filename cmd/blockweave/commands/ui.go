package commands

import "github.com/charmbracelet/lipgloss"

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// WarningLine formats a user-facing warning for terminal output.
func WarningLine(msg string) string {
	return warnStyle.Render("warning:") + " " + msg
}

// ErrorLine formats a fatal error for terminal output.
func ErrorLine(err error) string {
	return errStyle.Render("error:") + " " + err.Error()
}
