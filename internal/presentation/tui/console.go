package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// Console renders conversation output with termenv colors, degrading
// gracefully on terminals without color support.
type Console struct {
	profile       termenv.Profile
	assistantName string
	userName      string
}

// NewConsole creates a console for an assistant/user pair.
func NewConsole(assistantName, userName string) *Console {
	return &Console{
		profile:       termenv.ColorProfile(),
		assistantName: assistantName,
		userName:      userName,
	}
}

// Assistant prints a message spoken by the assistant.
func (c *Console) Assistant(message string) {
	name := termenv.String(c.assistantName).Foreground(c.profile.Color("#22d3ee")).Bold()
	fmt.Printf("%s ➤ %s\n", name, message)
}

// Prompt prints the user prompt prefix (input is read by the caller).
func (c *Console) Prompt() {
	name := termenv.String(c.userName).Foreground(c.profile.Color("#4ade80")).Bold()
	fmt.Printf("%s ➤ ", name)
}

// Info prints a dimmed informational message.
func (c *Console) Info(message string) {
	fmt.Println(termenv.String(message).Faint())
}

// Warning prints a highlighted warning.
func (c *Console) Warning(message string) {
	tag := termenv.String("[AVISO]").Foreground(c.profile.Color("#facc15")).Bold()
	fmt.Printf("%s %s\n", tag, message)
}

// Error prints a highlighted error.
func (c *Console) Error(message string) {
	tag := termenv.String("[ERRO]").Foreground(c.profile.Color("#f87171")).Bold()
	fmt.Printf("%s %s\n", tag, message)
}

// Success prints a highlighted success message.
func (c *Console) Success(message string) {
	tag := termenv.String("[OK]").Foreground(c.profile.Color("#4ade80")).Bold()
	fmt.Printf("%s %s\n", tag, message)
}
