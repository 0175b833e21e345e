// Package theme maps the light and dark themes to terminal styles and
// chroma syntax styles.
package theme

import (
	"slices"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/debemdeboas/postdeck/internal/config"
)

type palette struct {
	accent, text, muted, errorFg, successFg, border, disabled lipgloss.Color
}

var palettes = map[string]palette{
	config.DarkTheme: {
		accent:    "#fabd2f",
		text:      "#ebdbb2",
		muted:     "#928374",
		errorFg:   "#fb4934",
		successFg: "#b8bb26",
		border:    "#504945",
		disabled:  "#665c54",
	},
	config.LightTheme: {
		accent:    "#8839ef",
		text:      "#4c4f69",
		muted:     "#8c8fa1",
		errorFg:   "#d20f39",
		successFg: "#40a02b",
		border:    "#bcc0cc",
		disabled:  "#9ca0b0",
	},
}

// Styles holds the lipgloss styles of one theme.
type Styles struct {
	Name        string
	SyntaxTheme string

	Title          lipgloss.Style
	Item           lipgloss.Style
	Selected       lipgloss.Style
	Muted          lipgloss.Style
	Error          lipgloss.Style
	Success        lipgloss.Style
	Label          lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Dialog         lipgloss.Style
	Help           lipgloss.Style
}

// New returns the styles for theme. Unknown names use config.DefaultTheme.
func New(theme string, syntax config.SyntaxConfig) Styles {
	if _, ok := palettes[theme]; !ok {
		theme = config.DefaultTheme
	}
	p := palettes[theme]

	button := lipgloss.NewStyle().Padding(0, 2).Bold(true)

	return Styles{
		Name:        theme,
		SyntaxTheme: GetDefaultSyntaxTheme(theme, syntax),

		Title:          lipgloss.NewStyle().Bold(true).Foreground(p.accent).MarginBottom(1),
		Item:           lipgloss.NewStyle().Foreground(p.text).PaddingLeft(2),
		Selected:       lipgloss.NewStyle().Foreground(p.accent).Bold(true).PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(p.accent),
		Muted:          lipgloss.NewStyle().Foreground(p.muted),
		Error:          lipgloss.NewStyle().Foreground(p.errorFg).Bold(true),
		Success:        lipgloss.NewStyle().Foreground(p.successFg).Bold(true),
		Label:          lipgloss.NewStyle().Foreground(p.muted).Bold(true),
		Button:         button.Foreground(p.text).Background(p.border),
		ButtonDisabled: button.Foreground(p.disabled),
		Dialog:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(1, 2),
		Help:           lipgloss.NewStyle().Foreground(p.muted).MarginTop(1),
	}
}

func GetDefaultSyntaxTheme(theme string, syntax config.SyntaxConfig) string {
	return map[string]string{
		config.LightTheme: syntax.DefaultLight,
		config.DarkTheme:  syntax.DefaultDark,
	}[theme]
}

// Toggle returns the opposite of theme.
func Toggle(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}

func GetSyntaxThemes() []string {
	styleNames := styles.Names()
	slices.Sort(styleNames)
	return styleNames
}

// IsLightSyntaxTheme reports whether the chroma style has a light
// background. Styles without a background are treated as dark.
func IsLightSyntaxTheme(name string) bool {
	bg := styles.Get(name).Get(chroma.Background)
	if !bg.Background.IsSet() {
		return false
	}
	luminance := (0.299*float64(bg.Background.Red()) +
		0.587*float64(bg.Background.Green()) +
		0.114*float64(bg.Background.Blue())) / 255
	return luminance > 0.5
}
