package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cloud9/internal/config"
	"github.com/theirongolddev/cloud9/internal/model"
	"github.com/theirongolddev/cloud9/internal/store"
	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues backs the provider and credential wizard.
type SetupValues struct {
	Provider string
	Theme    string
	fields   map[model.Provider]map[string]*string
}

// NewSetupValues seeds the wizard from the current config and saved profiles.
func NewSetupValues(cfg config.Config, saved map[model.Provider]model.Credentials) *SetupValues {
	v := &SetupValues{
		Provider: string(config.GetProvider(cfg)),
		Theme:    cfg.Appearance.Theme,
		fields:   make(map[model.Provider]map[string]*string),
	}
	if !model.Provider(v.Provider).Known() {
		v.Provider = string(model.AWS)
	}
	for _, p := range model.Providers {
		m := make(map[string]*string)
		for _, f := range model.CredentialFields(p) {
			val := saved[p].Fields[f.Key]
			m[f.Key] = &val
		}
		v.fields[p] = m
	}
	return v
}

// Credentials returns the profile entered for the selected provider.
func (v *SetupValues) Credentials() model.Credentials {
	p := model.Provider(v.Provider)
	c := model.Credentials{Provider: p, Fields: make(map[string]string)}
	for key, val := range v.fields[p] {
		c.Fields[key] = strings.TrimSpace(*val)
	}
	return c
}

// NewSetupForm builds the first-run wizard: provider, its credentials, theme.
func NewSetupForm(v *SetupValues) *huh.Form {
	providerOpts := make([]huh.Option[string], len(model.Providers))
	for i, p := range model.Providers {
		providerOpts[i] = huh.NewOption(p.DisplayName(), string(p))
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cloud9").
				Description("Pick the cloud you want to monitor, then enter its credentials.\nCredentials are stored locally and never sent anywhere."),
			huh.NewSelect[string]().
				Title("Cloud provider").
				Options(providerOpts...).
				Value(&v.Provider),
		),
	}

	for _, p := range model.Providers {
		var inputs []huh.Field
		for _, f := range model.CredentialFields(p) {
			in := huh.NewInput().
				Title(f.Label).
				Value(v.fields[p][f.Key])
			if f.Secret {
				in = in.EchoMode(huh.EchoModePassword)
			}
			inputs = append(inputs, in)
		}
		groups = append(groups, huh.NewGroup(inputs...).
			Title(fmt.Sprintf("%s Credentials", p.DisplayName())).
			WithHideFunc(func() bool { return v.Provider != string(p) }))
	}

	groups = append(groups, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Color theme").
			Options(themeOpts...).
			Value(&v.Theme),
	))

	return huh.NewForm(groups...).WithShowHelp(true)
}

// SaveSetup writes the chosen provider and theme to the config file and the
// credential profile to st. st may be nil, in which case only the config is saved.
func SaveSetup(v *SetupValues, st *store.Store) (config.Config, error) {
	cfg, _ := config.Load()
	cfg.General.Provider = v.Provider
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	if st != nil {
		if err := st.SaveCredentials(v.Credentials()); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
