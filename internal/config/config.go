package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rostergrid/pkg/core/holidays"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	HighlightByLabel  = "label"
	HighlightByEntity = "entity"

	defaultDaysBefore  = 14
	defaultMonthsAfter = 3
)

// Holiday is a public holiday, given as a recurrence rule or a single date
type Holiday struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule,omitempty" validate:"required_without=Date"`
	Date  string `yaml:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Window sets the default visible range around today
type Window struct {
	DaysBefore  *int `yaml:"daysBefore,omitempty" validate:"omitempty,min=0"`
	MonthsAfter *int `yaml:"monthsAfter,omitempty" validate:"omitempty,min=0"`
}

// Config represents the application configuration
type Config struct {
	Backend        string    `yaml:"backend" validate:"required,oneof=postgres sqlite"`
	DatabaseURL    string    `yaml:"databaseURL,omitempty" validate:"required_if=Backend postgres"`
	SQLitePath     string    `yaml:"sqlitePath,omitempty" validate:"required_if=Backend sqlite"`
	Window         Window    `yaml:"window,omitempty"`
	Holidays       []Holiday `yaml:"holidays,omitempty" validate:"dive"`
	PublishSheetID string    `yaml:"publishSheetID,omitempty"`
	HighlightColor string    `yaml:"highlightColor,omitempty" validate:"omitempty,hexcolor"`
	HighlightKey   string    `yaml:"highlightKey,omitempty" validate:"omitempty,oneof=label entity"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// DaysBefore returns the configured days shown before today, defaulting to 14
func (c *Config) DaysBefore() int {
	if c.Window.DaysBefore == nil {
		return defaultDaysBefore
	}
	return *c.Window.DaysBefore
}

// MonthsAfter returns the configured months shown after today, defaulting to 3
func (c *Config) MonthsAfter() int {
	if c.Window.MonthsAfter == nil {
		return defaultMonthsAfter
	}
	return *c.Window.MonthsAfter
}

// HolidayRules converts the configured holidays for the holiday calendar
func (c *Config) HolidayRules() []holidays.Rule {
	rules := make([]holidays.Rule, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		rules = append(rules, holidays.Rule{Name: h.Name, RRule: h.RRule, Date: h.Date})
	}
	return rules
}

// LoadWithEnv loads and validates rostergrid_config.<env>.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, h := range cfg.Holidays {
		if h.RRule == "" {
			continue
		}
		if _, err := rrule.StrToRRule(h.RRule); err != nil {
			return fmt.Errorf("invalid rrule in holidays[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for the env's config file
func findConfigFile(env string) (string, error) {
	configFileName := "rostergrid_config.yaml"
	if env != "" {
		configFileName = "rostergrid_config." + env + ".yaml"
	}
	return findFile(configFileName)
}

// findFile looks for name in the current directory, then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
