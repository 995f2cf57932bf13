package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// colorNameMap maps user-friendly color names to ANSI 16-color values
var colorNameMap = map[string]string{
	// Standard colors (0-7)
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	// Bright colors (8-15)
	"bright-black":   "8",
	"gray":           "8", // alias for bright-black
	"bright-red":     "9",
	"bright-green":   "10",
	"bright-yellow":  "11",
	"bright-blue":    "12",
	"bright-magenta": "13",
	"bright-cyan":    "14",
	"bright-white":   "15",
}

// resolveColorValue converts color names to ANSI 16-color numbers, or
// passes hex colors and raw ANSI/256-color codes through to lipgloss.
func resolveColorValue(colorInput string) string {
	if colorInput == "" {
		return colorInput
	}
	if ansiValue, exists := colorNameMap[strings.ToLower(colorInput)]; exists {
		return ansiValue
	}
	return colorInput
}

// ColorScheme holds the colors of the index view.
type ColorScheme struct {
	NumberColor    string `toml:"number"`
	TitleColor     string `toml:"title"`
	DateColor      string `toml:"date"`
	WordCountColor string `toml:"wordcount"`
	DescColor      string `toml:"description"`
	EmptyDescColor string `toml:"empty-description"`
	RecapColor     string `toml:"recap"`
	TagColor       string `toml:"tag"`
	TagBgColor     string `toml:"tag-bg"`
	ErrorColor     string `toml:"error"`
	StatusColor    string `toml:"status"`
	SelectorColor  string `toml:"selector"`
}

// Config is everything skald reads from its config file.
type Config struct {
	Path                  string            `toml:"path"`
	Editor                string            `toml:"editor"`
	Title                 string            `toml:"title"`
	EntryLengthTemplate   string            `toml:"entry_length_template"`
	CapitalizeTitles      bool              `toml:"capitalize_all_words_in_title"`
	ColorMode             string            `toml:"color_mode"` // "light", "dark", or empty for auto-detect
	TagMacros             map[string]string `toml:"tag_macros"`
	TagColors             map[string]string `toml:"tag_colors"`
	// BackstoryDefaultPages maps file names to page titles, created when
	// an entry's backstory directory is first opened.
	BackstoryDefaultPages map[string]string `toml:"backstory_default_pages"`
	Colors                ColorScheme       `toml:"colors"`
}

// Load reads the config file, then lets environment variables override it
// and fills in defaults.
func Load() (*Config, error) {
	cfg := &Config{
		CapitalizeTitles: true,
		TagMacros:        map[string]string{},
		TagColors:        map[string]string{},
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(home, ".config", "skald", "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.Path = expandEnv(cfg.Path)
		cfg.Editor = expandEnv(cfg.Editor)
	}

	// Environment overrides
	if path := os.Getenv("SKALD_DIR"); path != "" {
		cfg.Path = expandEnv(path)
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		cfg.Editor = editor
	}

	// Defaults
	if cfg.Editor == "" {
		cfg.Editor = "vim"
	}
	if cfg.Title == "" {
		cfg.Title = "skald"
	}
	if cfg.EntryLengthTemplate == "" {
		cfg.EntryLengthTemplate = "({wordcount}) [{backstorywordcount}:{backstorypages}]"
	}

	cfg.initializeColors()

	return cfg, nil
}

func expandEnv(s string) string {
	if s == "" {
		return s
	}
	if strings.Contains(s, "$HOME") {
		home, _ := os.UserHomeDir()
		s = strings.ReplaceAll(s, "$HOME", home)
	}
	if strings.HasPrefix(s, "~/") {
		home, _ := os.UserHomeDir()
		s = filepath.Join(home, s[2:])
	}
	return os.ExpandEnv(s)
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("story path not set. Please create ~/.config/skald/config.toml with:\npath = \"/path/to/stories\"")
	}
	return nil
}

// initializeColors sets up default colors based on color mode.
// Colors can be overridden in the config file [colors] section.
func (c *Config) initializeColors() {
	colorMode := c.ColorMode
	if colorMode == "" {
		if envMode := os.Getenv("SKALD_COLOR_MODE"); envMode != "" {
			colorMode = envMode
		}
	}

	lightMode := ColorScheme{
		NumberColor:    "8",
		TitleColor:     "4",
		DateColor:      "5",
		WordCountColor: "4",
		DescColor:      "0",
		EmptyDescColor: "8",
		RecapColor:     "5",
		TagColor:       "15",
		TagBgColor:     "4",
		ErrorColor:     "1",
		StatusColor:    "2",
		SelectorColor:  "4",
	}

	darkMode := ColorScheme{
		NumberColor:    "8",
		TitleColor:     "6",
		DateColor:      "3",
		WordCountColor: "2",
		DescColor:      "15",
		EmptyDescColor: "8",
		RecapColor:     "3",
		TagColor:       "0",
		TagBgColor:     "14",
		ErrorColor:     "9",
		StatusColor:    "10",
		SelectorColor:  "6",
	}

	var defaults ColorScheme
	switch strings.ToLower(colorMode) {
	case "light":
		defaults = lightMode
	case "dark":
		defaults = darkMode
	default:
		defaults = darkMode
	}

	setColor := func(target *string, fallback string) {
		if *target == "" {
			*target = fallback
		}
		*target = resolveColorValue(*target)
	}
	setColor(&c.Colors.NumberColor, defaults.NumberColor)
	setColor(&c.Colors.TitleColor, defaults.TitleColor)
	setColor(&c.Colors.DateColor, defaults.DateColor)
	setColor(&c.Colors.WordCountColor, defaults.WordCountColor)
	setColor(&c.Colors.DescColor, defaults.DescColor)
	setColor(&c.Colors.EmptyDescColor, defaults.EmptyDescColor)
	setColor(&c.Colors.RecapColor, defaults.RecapColor)
	setColor(&c.Colors.TagColor, defaults.TagColor)
	setColor(&c.Colors.TagBgColor, defaults.TagBgColor)
	setColor(&c.Colors.ErrorColor, defaults.ErrorColor)
	setColor(&c.Colors.StatusColor, defaults.StatusColor)
	setColor(&c.Colors.SelectorColor, defaults.SelectorColor)
}

// RenderLengthTemplate fills the entry length template placeholders
// {wordcount}, {backstorywordcount} and {backstorypages}.
func (c *Config) RenderLengthTemplate(wordCount, backstoryWordCount, backstoryPages int) string {
	r := strings.NewReplacer(
		"{wordcount}", fmt.Sprintf("%d", wordCount),
		"{backstorywordcount}", fmt.Sprintf("%d", backstoryWordCount),
		"{backstorypages}", fmt.Sprintf("%d", backstoryPages),
	)
	return r.Replace(c.EntryLengthTemplate)
}
