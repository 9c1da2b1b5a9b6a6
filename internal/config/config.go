// Package config loads the YAML configuration of the ansimark command.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pkt.systems/ansimark/internal/palette"
)

// Config is the on-disk configuration.
type Config struct {
	Render  Render            `yaml:"render"`
	Palette map[string]string `yaml:"palette" validate:"omitempty,dive,keys,color_name,endkeys,hexcolor"`
	Legacy  map[string]string `yaml:"legacy" validate:"omitempty,dive,keys,legacy_code,endkeys,required"`
	Log     Log               `yaml:"log"`
}

// Render holds capability defaults.
type Render struct {
	ANSI  string `yaml:"ansi" validate:"omitempty,oneof=auto on off"`
	Xterm string `yaml:"xterm" validate:"omitempty,oneof=auto on off"`
	MXP   bool   `yaml:"mxp"`
	Width int    `yaml:"width" validate:"gte=0,lte=1000"`
}

// Log holds logger defaults.
type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Human *bool  `yaml:"human"`
}

// ValidationError describes an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("color_name", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return name != "" && strings.IndexFunc(name, func(r rune) bool {
				return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
			}) < 0
		})
		_ = v.RegisterValidation("legacy_code", func(fl validator.FieldLevel) bool {
			code := fl.Field().String()
			return utf8.RuneCountInString(code) == 1 && code != " "
		})
		validateInst = v
	})
	return validateInst
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Render: Render{ANSI: "auto", Xterm: "auto"}}
}

// Load reads and validates a configuration file. Unset fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c == nil {
		return &ValidationError{Field: "config", Message: "configuration is nil"}
	}
	if err := validatorInstance().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{Field: fe.Namespace(), Message: fmt.Sprintf("failed %q (value %v)", fe.Tag(), fe.Value())}
		}
		return err
	}
	return nil
}

// PaletteColors returns the palette section parsed into RGB values.
func (c *Config) PaletteColors() (map[string]palette.RGB, error) {
	out := make(map[string]palette.RGB, len(c.Palette))
	names := make([]string, 0, len(c.Palette))
	for name := range c.Palette {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rgb, err := palette.ParseHex(c.Palette[name])
		if err != nil {
			return nil, &ValidationError{Field: "palette." + name, Message: err.Error()}
		}
		out[name] = rgb
	}
	return out, nil
}

// LegacyCodes returns the legacy section keyed by code rune.
func (c *Config) LegacyCodes() map[rune]string {
	out := make(map[rune]string, len(c.Legacy))
	for code, spec := range c.Legacy {
		r, _ := utf8.DecodeRuneInString(code)
		out[r] = spec
	}
	return out
}
