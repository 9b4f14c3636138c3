package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a colour scheme. Cold, Warm and Hot are the stops of the heat
// ramp.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Cold lipgloss.Color
	Warm lipgloss.Color
	Hot  lipgloss.Color
}

var (
	ThemeFurnace = Theme{
		Name:    "furnace",
		Primary: lipgloss.Color("#ff8800"),
		Accent:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
		Cold:    lipgloss.Color("#1a1a40"),
		Warm:    lipgloss.Color("#cc3300"),
		Hot:     lipgloss.Color("#ffee88"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
		Cold:    lipgloss.Color("#001a33"),
		Warm:    lipgloss.Color("#00a8cc"),
		Hot:     lipgloss.Color("#ffffff"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
		Cold:    lipgloss.Color("#202020"),
		Warm:    lipgloss.Color("#808080"),
		Hot:     lipgloss.Color("#ffffff"),
	}

	CurrentTheme = ThemeFurnace

	Themes = []Theme{
		ThemeFurnace,
		ThemeOcean,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to furnace.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeFurnace
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles to the theme after the current one.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme
}

// HeatColor maps v in [lo, hi] onto the theme's Cold→Warm→Hot ramp.
func (t Theme) HeatColor(v, lo, hi float64) lipgloss.Color {
	f := normalize(v, lo, hi)
	if f < 0.5 {
		return lerpColor(t.Cold, t.Warm, f*2)
	}
	return lerpColor(t.Warm, t.Hot, (f-0.5)*2)
}
