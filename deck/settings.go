package deck

import (
	"github.com/ByLCY/slidegen/palette"
)

// Settings are the per-run presentation options.
type Settings struct {
	PrimaryColor       string `yaml:"primary_color" json:"primaryColor" validate:"omitempty,hexcolor"`
	GradientStart      string `yaml:"gradient_start" json:"gradientStart" validate:"omitempty,hexcolor"`
	GradientEnd        string `yaml:"gradient_end" json:"gradientEnd" validate:"omitempty,hexcolor"`
	FontFamily         string `yaml:"font_family" json:"fontFamily"`
	ShowTitleUnderline bool   `yaml:"show_title_underline" json:"showTitleUnderline"`
	ShowBottomBar      bool   `yaml:"show_bottom_bar" json:"showBottomBar"`
	ShowDateColumn     bool   `yaml:"show_date_column" json:"showDateColumn"`
	EnableGradient     bool   `yaml:"enable_gradient" json:"enableGradient"`
	FooterText         string `yaml:"footer_text" json:"footerText"`
	HeaderLogo         string `yaml:"header_logo" json:"headerLogoUrl"`
	ClosingLogo        string `yaml:"closing_logo" json:"closingLogoUrl"`
	TitleBg            string `yaml:"title_bg" json:"titleBgUrl"`
	SectionBg          string `yaml:"section_bg" json:"sectionBgUrl"`
	MainBg             string `yaml:"main_bg" json:"mainBgUrl"`
	ClosingBg          string `yaml:"closing_bg" json:"closingBgUrl"`
	ThemeMode          string `yaml:"theme_mode" json:"themeMode" validate:"omitempty,oneof=light dark"`
}

// DefaultSettings returns the stock options.
func DefaultSettings() Settings {
	return Settings{
		PrimaryColor:       "#0A84FF",
		GradientStart:      "#4285F4",
		GradientEnd:        "#FF52DF",
		FontFamily:         "Latin Modern Sans",
		ShowTitleUnderline: true,
		ShowBottomBar:      true,
		ShowDateColumn:     true,
		FooterText:         "© ${year} Your Company",
		ThemeMode:          "light",
	}
}

// Mode returns the parsed theme mode.
func (s Settings) Mode() palette.Mode { return palette.ParseMode(s.ThemeMode) }

// withDefaults fills empty strings from DefaultSettings. Booleans are taken as given.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	for _, f := range []struct{ dst *string; def string }{
		{&s.PrimaryColor, d.PrimaryColor},
		{&s.GradientStart, d.GradientStart},
		{&s.GradientEnd, d.GradientEnd},
		{&s.FontFamily, d.FontFamily},
		{&s.ThemeMode, d.ThemeMode},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	return s
}
