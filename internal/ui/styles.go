// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/silver/internal/config"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color

	// Styles
	TitleStyle       lipgloss.Style
	StatusBarStyle   lipgloss.Style
	HintKeyStyle     lipgloss.Style
	HintDescStyle    lipgloss.Style
	ChipIdleStyle    lipgloss.Style
	ChipBusyStyle    lipgloss.Style
	ChipOKStyle      lipgloss.Style
	ChipFailedStyle  lipgloss.Style
	MetaStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	TabStyle         lipgloss.Style
	TabActiveStyle   lipgloss.Style
	TabDisabledStyle lipgloss.Style
	PlaceholderStyle lipgloss.Style
	SuccessStyle     lipgloss.Style
	ErrorStyle       lipgloss.Style
	WarningStyle     lipgloss.Style
	LabelStyle       lipgloss.Style
	PopupStyle       lipgloss.Style
)

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(bgPrimary).
		Background(accentColor).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	HintKeyStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(cardBg).
		Padding(0, 1).
		Bold(true)

	HintDescStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Background(bgSecondary).
		Padding(0, 1)

	chip := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	ChipIdleStyle = chip.Background(cardBg).Foreground(textSecondary)
	ChipBusyStyle = chip.Background(warningColor).Foreground(bgPrimary)
	ChipOKStyle = chip.Background(successColor).Foreground(bgPrimary)
	ChipFailedStyle = chip.Background(errorColor).Foreground(textPrimary)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(textFaint)

	PaneFocusedStyle = PaneStyle.
		BorderForeground(accentColor)

	TabStyle = lipgloss.NewStyle().
		Foreground(textSecondary).
		Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	TabDisabledStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Faint(true).
		Padding(0, 1)

	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(warningColor)

	LabelStyle = lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 2)
}
