package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/talkie/internal/domain"
	"github.com/spf13/cobra"
)

var errNothingToSet = errors.New("nothing to set: pass --gender, --theme or --callsign")

type prefsView struct {
	Gender   string `json:"gender"`
	Theme    string `json:"theme"`
	Callsign string `json:"callsign"`
}

func newPrefsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change saved preferences",
	}

	cmd.AddCommand(
		newPrefsShowCmd(app),
		newPrefsSetCmd(app),
		newPrefsThemesCmd(),
	)

	return cmd
}

func newPrefsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show saved preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs, err := app.prefs.Load(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(prefsView{
					Gender:   string(prefs.Persona),
					Theme:    prefs.ThemeID,
					Callsign: string(prefs.Callsign),
				})
			}

			callsign := string(prefs.Callsign)
			if callsign == "" {
				callsign = "(unset)"
			}
			themeName := prefs.ThemeID
			if theme, err := domain.LookupTheme(prefs.ThemeID); err == nil {
				themeName = fmt.Sprintf("%s (%s)", theme.ID, theme.Name)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "gender: %s\n", prefs.Persona)
			_, _ = fmt.Fprintf(out, "theme: %s\n", themeName)
			_, _ = fmt.Fprintf(out, "callsign: %s\n", callsign)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output preferences as JSON")

	return cmd
}

func newPrefsSetCmd(app *app) *cobra.Command {
	var (
		gender   string
		theme    string
		callsign string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save one or more preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("gender") && !flags.Changed("theme") && !flags.Changed("callsign") {
				return errNothingToSet
			}

			out := cmd.OutOrStdout()
			if flags.Changed("gender") {
				persona, err := app.prefs.SetPersona(cmd.Context(), gender)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "Saved gender: %s\n", persona)
			}
			if flags.Changed("theme") {
				saved, err := app.prefs.SetTheme(cmd.Context(), theme)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "Saved theme: %s (%s)\n", saved.ID, saved.Name)
			}
			if flags.Changed("callsign") {
				saved, err := app.prefs.SetCallsign(cmd.Context(), callsign)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "Saved callsign: %s\n", saved)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&gender, "gender", "", "Announcer voice: male or female")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme id (see talkie prefs themes)")
	cmd.Flags().StringVar(&callsign, "callsign", "", "Default callsign")

	return cmd
}

func newPrefsThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, theme := range domain.Themes() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", theme.ID, theme.Name)
			}
			return nil
		},
	}
}
