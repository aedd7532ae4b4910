package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/clanintake/core/config"
	coredatabase "github.com/m3rciful/clanintake/core/database"
)

// DefaultExampleImage is shown with the screenshot prompt when EXAMPLE_IMAGE is unset.
const DefaultExampleImage = "example.jpg"

// FormConfig configures the applicant questionnaire.
type FormConfig struct {
	// ExampleImage is a local file; "-" disables the image.
	ExampleImage string `yaml:"example_image" envconfig:"EXAMPLE_IMAGE"`
}

// ReviewConfig configures how requests are shown to the reviewer.
type ReviewConfig struct {
	// Timezone is an IANA name used for the submission time; empty means local time.
	Timezone string `yaml:"timezone" envconfig:"REVIEW_TIMEZONE"`
}

// Config is the bot configuration: the shared core plus intake settings.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Form     FormConfig          `yaml:"form"`
	Review   ReviewConfig        `yaml:"review"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the optional YAML file at path, overlays the environment
// and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates all sections and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return err
	}

	img := strings.TrimSpace(c.Form.ExampleImage)
	switch img {
	case "":
		img = DefaultExampleImage
	case "-":
		img = ""
	}
	c.Form.ExampleImage = img

	c.Review.Timezone = strings.TrimSpace(c.Review.Timezone)
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the review time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Review.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Review.Timezone)
	if err != nil {
		return nil, fmt.Errorf("review.timezone %q: %w", c.Review.Timezone, err)
	}
	return loc, nil
}
