package domain

const (
	PreferenceGender   = "gender"
	PreferenceTheme    = "theme"
	PreferenceCallsign = "callsign"
)

type Preferences struct {
	Persona  VoicePersona
	ThemeID  string
	Callsign Callsign
}

func DefaultPreferences() Preferences {
	return Preferences{
		Persona: PersonaMale,
		ThemeID: DefaultThemeID,
	}
}
