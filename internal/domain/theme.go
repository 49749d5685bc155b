package domain

import "fmt"

const DefaultThemeID = "stealth"

type Theme struct {
	ID     string
	Name   string
	Accent string
}

var themes = []Theme{
	{ID: "stealth", Name: "Dark Mode", Accent: "#22c55e"},
	{ID: "classic", Name: "Night Blue", Accent: "#818cf8"},
	{ID: "desert", Name: "Sand", Accent: "#fbbf24"},
	{ID: "ironman", Name: "Energy Red", Accent: "#22d3ee"},
	{ID: "neon", Name: "Neon Sunset", Accent: "#facc15"},
	{ID: "forest", Name: "Emerald Forest", Accent: "#4ade80"},
	{ID: "purple", Name: "Deep Purple", Accent: "#f472b6"},
	{ID: "arctic", Name: "Arctic", Accent: "#7dd3fc"},
	{ID: "matrix", Name: "Cyber Matrix", Accent: "#22c55e"},
	{ID: "volcano", Name: "Volcano", Accent: "#f97316"},
}

func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

func LookupTheme(id string) (Theme, error) {
	for _, theme := range themes {
		if theme.ID == id {
			return theme, nil
		}
	}

	return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
}
