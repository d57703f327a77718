package ui

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps color roles to ANSI escape sequences for line-oriented output.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// fg256 is the escape sequence for a color of the 256-color palette.
func fg256(code int) string { return fmt.Sprintf("\033[38;5;%dm", code) }

func newTheme(name string, primary, secondary, success, warning, errColor, info int) Theme {
	return Theme{
		Name:      name,
		Primary:   fg256(primary),
		Secondary: fg256(secondary),
		Success:   fg256(success),
		Warning:   fg256(warning),
		Error:     fg256(errColor),
		Info:      fg256(info),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}
}

var (
	// DarkTheme uses bright colors for dark backgrounds. It is the default.
	DarkTheme = newTheme("dark", 39, 245, 82, 220, 196, 141)
	// LightTheme uses darker shades for light backgrounds.
	LightTheme = newTheme("light", 27, 240, 28, 130, 124, 54)
	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{Name: "none"}

	themesByName = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	current atomic.Pointer[Theme]
)

func init() { SetCurrentTheme(DarkTheme) }

// TUITheme is the dashboard palette, in lipgloss colors.
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

func hexPalette(bg, text, border, accent, success, warning, errColor, dim, info string) TUITheme {
	return TUITheme{
		Bg:      lipgloss.Color(bg),
		Text:    lipgloss.Color(text),
		Border:  lipgloss.Color(border),
		Accent:  lipgloss.Color(accent),
		Success: lipgloss.Color(success),
		Warning: lipgloss.Color(warning),
		Error:   lipgloss.Color(errColor),
		Dim:     lipgloss.Color(dim),
		Info:    lipgloss.Color(info),
	}
}

var (
	DarkTUITheme  = hexPalette("#000000", "#E0E0E0", "#FF6600", "#FF8C00", "#9ECE6A", "#FFB347", "#FF4444", "#666666", "#4488FF")
	LightTUITheme = hexPalette("#FFFFFF", "#202020", "#C04A00", "#B35C00", "#2E7D32", "#A15C00", "#B71C1C", "#8A8A8A", "#1A4FB0")

	// NoColorTUITheme leaves every role at the terminal default.
	NoColorTUITheme = TUITheme{
		Bg: lipgloss.NoColor{}, Text: lipgloss.NoColor{}, Border: lipgloss.NoColor{},
		Accent: lipgloss.NoColor{}, Success: lipgloss.NoColor{}, Warning: lipgloss.NoColor{},
		Error: lipgloss.NoColor{}, Dim: lipgloss.NoColor{}, Info: lipgloss.NoColor{},
	}
)

// GetCurrentTheme returns the active theme. It is safe for concurrent use.
func GetCurrentTheme() Theme { return *current.Load() }

// SetCurrentTheme installs t as the active theme.
func SetCurrentTheme(t Theme) { current.Store(&t) }

// GetCurrentTUITheme returns the dashboard palette paired with the active
// theme.
func GetCurrentTUITheme() TUITheme {
	switch GetCurrentTheme().Name {
	case NoColorTheme.Name:
		return NoColorTUITheme
	case LightTheme.Name:
		return LightTUITheme
	default:
		return DarkTUITheme
	}
}

// SetTheme selects a theme by name; unknown names select DarkTheme.
func SetTheme(name string) {
	t, ok := themesByName[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme disables colors when noColor is set or NO_COLOR is present in
// the environment (https://no-color.org/), and selects DarkTheme otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
