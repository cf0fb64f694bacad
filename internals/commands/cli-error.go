package commands

import (
	"github.com/charmbracelet/lipgloss"
)

// CliError is an error that might get displayed to the user
type CliError struct {
	Text        string
	Code        string
	Suggestions []string
	Help        string
	// Err is the underlying error, if any
	Err error
}

// Wrap turns err into a CliError with suggestions
func Wrap(err error, suggestions ...string) *CliError {
	return &CliError{Text: err.Error(), Suggestions: suggestions, Err: err}
}

func (e *CliError) Error() string {
	return e.Text
}

func (e *CliError) Unwrap() error {
	return e.Err
}

func (e *CliError) RichError() string {
	text := e.Text
	if e.Code != "" {
		text = "[" + e.Code + "] " + text
	}
	rendered := ErrorBox(text, e.Help)
	if len(e.Suggestions) == 0 {
		return rendered
	}

	heading := "Suggestion:\n"
	if len(e.Suggestions) > 1 {
		heading = "Suggestions:\n"
	}
	suggestionText := Emoji("📎 ") + heading
	for _, s := range e.Suggestions {
		suggestionText += " ⦁ " + s + "\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered, styleHelpBox.Render(suggestionText))
}
