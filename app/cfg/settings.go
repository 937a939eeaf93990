package cfg

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docketwatch/docketwatch/app/notify"
)

type ReaderSettings struct {
	BaseDirectory string   `yaml:"base_directory"`
	Feeds         []string `yaml:"feeds"`
}

type CleanerSettings struct {
	DaysAgo int `yaml:"days_ago"`
}

type FilterSettings struct {
	Dockets []string `yaml:"dockets"`
}

type WriterSettings struct {
	Format        string `yaml:"format"`
	PageSize      int    `yaml:"page_size"`
	BaseDirectory string `yaml:"base_directory"`
}

type MonitorSettings struct {
	Every []string `yaml:"every"`
}

// Settings is the full contents of the docketwatch.yaml file.
type Settings struct {
	Reader   ReaderSettings  `yaml:"reader"`
	Cleaner  CleanerSettings `yaml:"cleaner"`
	Filter   FilterSettings  `yaml:"filter"`
	Notifier notify.Config   `yaml:"notifier"`
	Writer   WriterSettings  `yaml:"writer"`
	Monitor  MonitorSettings `yaml:"monitor"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Reader: ReaderSettings{
			BaseDirectory: "data",
		},
		Cleaner: CleanerSettings{
			DaysAgo: 90,
		},
		Writer: WriterSettings{
			Format:        "html",
			PageSize:      20,
			BaseDirectory: "output",
		},
		Monitor: MonitorSettings{
			Every: []string{"07:00", "20:00"},
		},
	}
}

// LoadSettings reads the YAML settings file over the built-in defaults,
// so absent keys keep their default values while explicit keys override
// them, including explicit zeroes.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Settings file not found, using defaults", "path", path)
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
	}

	slog.Debug("Loaded settings", "path", path, "feeds", len(settings.Reader.Feeds))
	return settings, nil
}

func (s *Settings) validate() error {
	switch s.Writer.Format {
	case "html", "md", "csv":
	default:
		return fmt.Errorf("unknown writer format %q", s.Writer.Format)
	}
	if s.Writer.PageSize < 0 {
		return fmt.Errorf("writer page_size must not be negative, got %d", s.Writer.PageSize)
	}
	if s.Cleaner.DaysAgo < 0 {
		return fmt.Errorf("cleaner days_ago must not be negative, got %d", s.Cleaner.DaysAgo)
	}
	return nil
}
