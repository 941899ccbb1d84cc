// Package profile loads launch profiles: YAML files describing a browser
// launch that the CLI turns into config.Options.
//
// Example:
//
//	headless: true
//	lang: de-DE
//	port: 9222
//	prefs:
//	  profile.default_content_setting_values.images: 2
//	browser_args:
//	  - --window-size=1280,800
//	extensions:
//	  - ./extensions/adblock.crx
//	extras:
//	  force_cleanup: true
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/launchpad/pkg/args"
	"github.com/entrhq/launchpad/pkg/config"
)

// Profile is the file form of config.Options.
type Profile struct {
	// Profile directory; generated when empty
	UserDataDir string `yaml:"user_data_dir"`

	// Browser binary; discovered when empty
	ExecutablePath string `yaml:"executable_path"`

	Headless bool   `yaml:"headless"`
	Sandbox  bool   `yaml:"sandbox"`
	Expert   bool   `yaml:"expert"`
	Language string `yaml:"lang"`

	// Remote debugging endpoint overrides
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Dot-notation preferences written into Default/Preferences
	Preferences map[string]any `yaml:"prefs"`

	Arguments  []string       `yaml:"browser_args"`
	Extensions []string       `yaml:"extensions"`
	Extras     map[string]any `yaml:"extras"`
}

// Default returns a profile with default settings.
func Default() *Profile {
	return &Profile{
		Sandbox:  true,
		Language: config.DefaultLanguage,
	}
}

// Load reads a profile from a YAML file. Fields absent from the file keep
// their defaults; unknown fields are an error.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a profile document.
func Parse(data []byte) (*Profile, error) {
	p := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the profile and fills in defaults.
func (p *Profile) Validate() error {
	if p.Language == "" {
		p.Language = config.DefaultLanguage
	}

	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", p.Port)
	}

	for key := range p.Preferences {
		if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") || strings.Contains(key, "..") {
			return fmt.Errorf("invalid preference key %q", key)
		}
	}

	for _, arg := range p.Arguments {
		if err := args.CheckReserved(arg); err != nil {
			return err
		}
	}

	extras := config.NewExtras()
	if err := extras.SetData(p.Extras); err != nil {
		return err
	}

	return nil
}

// Options converts the profile into config.Options. Platform, logger and
// collaborators are left for the caller to set.
func (p *Profile) Options() config.Options {
	return config.Options{
		UserDataDir:    p.UserDataDir,
		ExecutablePath: p.ExecutablePath,
		Headless:       p.Headless,
		NoSandbox:      !p.Sandbox,
		Expert:         p.Expert,
		Language:       p.Language,
		Host:           p.Host,
		Port:           p.Port,
		Preferences:    p.Preferences,
		Arguments:      append([]string(nil), p.Arguments...),
		Extensions:     append([]string(nil), p.Extensions...),
		Extras:         p.Extras,
	}
}
