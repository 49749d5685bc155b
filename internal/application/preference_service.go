package application

import (
	"context"
	"fmt"

	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
)

type PreferenceService struct {
	store ports.PreferenceStore
}

func NewPreferenceService(store ports.PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store}
}

// Load returns the saved preferences. Missing or unusable values fall back
// to the defaults.
func (s *PreferenceService) Load(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	raw, found, err := s.store.Get(ctx, domain.PreferenceGender)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get gender preference: %w", err)
	}
	if found {
		if persona, err := domain.ParsePersona(raw); err == nil {
			prefs.Persona = persona
		}
	}

	raw, found, err = s.store.Get(ctx, domain.PreferenceTheme)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get theme preference: %w", err)
	}
	if found {
		if theme, err := domain.LookupTheme(raw); err == nil {
			prefs.ThemeID = theme.ID
		}
	}

	raw, found, err = s.store.Get(ctx, domain.PreferenceCallsign)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get callsign preference: %w", err)
	}
	if found {
		if callsign, err := domain.NormalizeCallsign(raw); err == nil {
			prefs.Callsign = callsign
		}
	}

	return prefs, nil
}

func (s *PreferenceService) SetPersona(ctx context.Context, raw string) (domain.VoicePersona, error) {
	persona, err := domain.ParsePersona(raw)
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, domain.PreferenceGender, string(persona)); err != nil {
		return "", fmt.Errorf("save gender preference: %w", err)
	}
	return persona, nil
}

func (s *PreferenceService) SetTheme(ctx context.Context, id string) (domain.Theme, error) {
	theme, err := domain.LookupTheme(id)
	if err != nil {
		return domain.Theme{}, err
	}
	if err := s.store.Put(ctx, domain.PreferenceTheme, theme.ID); err != nil {
		return domain.Theme{}, fmt.Errorf("save theme preference: %w", err)
	}
	return theme, nil
}

func (s *PreferenceService) SetCallsign(ctx context.Context, raw string) (domain.Callsign, error) {
	callsign, err := domain.NormalizeCallsign(raw)
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, domain.PreferenceCallsign, string(callsign)); err != nil {
		return "", fmt.Errorf("save callsign preference: %w", err)
	}
	return callsign, nil
}
