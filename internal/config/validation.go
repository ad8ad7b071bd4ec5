package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags plus the rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	for lang, voice := range c.Prayer.Voices {
		if strings.TrimSpace(lang) == "" || strings.TrimSpace(voice) == "" {
			return fmt.Errorf("validation failed: prayer.voices entry %q=%q must not be empty", lang, voice)
		}
	}
	return nil
}
