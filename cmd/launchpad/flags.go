package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/entrhq/launchpad/pkg/config"
	"github.com/entrhq/launchpad/pkg/profile"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// prefList is a repeatable key=value flag. Values are parsed as JSON
// literals when possible, so -pref a.b=2 stores a number and
// -pref a.c=true a bool; anything else is kept as a string.
type prefList map[string]any

func (p prefList) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (p prefList) Set(v string) error {
	key, raw, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	p[key] = parsePrefValue(raw)
	return nil
}

func parsePrefValue(raw string) any {
	var v any
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil || decoder.More() {
		return raw
	}
	return v
}

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ProfileFile    string
	UserDataDir    string
	ExecutablePath string
	Headless       bool
	NoSandbox      bool
	Expert         bool
	Language       string
	Host           string
	Port           int
	ForceCleanup   bool
	Preferences    prefList
	Arguments      stringList
	Extensions     stringList

	ShowPrefs   bool
	Copy        bool
	Launch      bool
	NoColor     bool
	ShowVersion bool

	// set records which flags were given explicitly
	set map[string]bool
}

func newFlagSet(cli *CLIConfig) *flag.FlagSet {
	fs := flag.NewFlagSet("launchpad", flag.ContinueOnError)
	cli.Preferences = prefList{}

	fs.StringVar(&cli.ProfileFile, "profile", "", "Path to a launch profile (YAML)")
	fs.StringVar(&cli.UserDataDir, "user-data-dir", "", "Profile directory (generated if empty)")
	fs.StringVar(&cli.ExecutablePath, "executable", "", "Browser executable (discovered if empty)")
	fs.BoolVar(&cli.Headless, "headless", false, "Run without a window")
	fs.BoolVar(&cli.NoSandbox, "no-sandbox", false, "Disable the browser sandbox")
	fs.BoolVar(&cli.Expert, "expert", false, "Disable web security and site isolation trials")
	fs.StringVar(&cli.Language, "lang", "", "Browser language (default en-US)")
	fs.StringVar(&cli.Host, "host", "", "Remote debugging host")
	fs.IntVar(&cli.Port, "port", 0, "Remote debugging port")
	fs.BoolVar(&cli.ForceCleanup, "force-cleanup", false, "Remove generated directories when the browser closes")
	fs.Var(cli.Preferences, "pref", "Preference as key=value, repeatable")
	fs.Var(&cli.Arguments, "arg", "Extra browser argument, repeatable")
	fs.Var(&cli.Extensions, "extension", "Extension archive or directory, repeatable")

	fs.BoolVar(&cli.ShowPrefs, "show-prefs", false, "Print the profile's Preferences file after applying")
	fs.BoolVar(&cli.Copy, "copy", false, "Copy the command line to the clipboard")
	fs.BoolVar(&cli.Launch, "launch", false, "Launch the browser and wait for interrupt")
	fs.BoolVar(&cli.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "launchpad - resolve and launch a browser configuration\n\n")
		fmt.Fprintf(out, "Usage: launchpad [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  # Print the command line for a headless browser\n")
		fmt.Fprintf(out, "  launchpad -headless\n\n")
		fmt.Fprintf(out, "  # Disable images and write the preference file\n")
		fmt.Fprintf(out, "  launchpad -pref profile.default_content_setting_values.images=2 -show-prefs\n\n")
		fmt.Fprintf(out, "  # Launch from a profile\n")
		fmt.Fprintf(out, "  launchpad -profile launch.yaml -launch\n\n")
	}
	return fs
}

// parseFlags parses command line arguments
func parseFlags(arguments []string) (*CLIConfig, error) {
	cli := &CLIConfig{}
	fs := newFlagSet(cli)
	if err := fs.Parse(arguments); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cli.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		cli.set[f.Name] = true
	})
	return cli, nil
}

// loadOptions builds config options from the profile file, if any, with
// explicitly given flags taking precedence.
func loadOptions(cli *CLIConfig) (config.Options, error) {
	p := profile.Default()
	if cli.ProfileFile != "" {
		loaded, err := profile.Load(cli.ProfileFile)
		if err != nil {
			return config.Options{}, err
		}
		p = loaded
	}

	if cli.set["user-data-dir"] {
		p.UserDataDir = cli.UserDataDir
	}
	if cli.set["executable"] {
		p.ExecutablePath = cli.ExecutablePath
	}
	if cli.set["headless"] {
		p.Headless = cli.Headless
	}
	if cli.set["no-sandbox"] {
		p.Sandbox = !cli.NoSandbox
	}
	if cli.set["expert"] {
		p.Expert = cli.Expert
	}
	if cli.set["lang"] {
		p.Language = cli.Language
	}
	if cli.set["host"] {
		p.Host = cli.Host
	}
	if cli.set["port"] {
		p.Port = cli.Port
	}
	if cli.set["force-cleanup"] {
		if p.Extras == nil {
			p.Extras = map[string]any{}
		}
		p.Extras[config.ExtraForceCleanup] = cli.ForceCleanup
	}

	if len(cli.Preferences) > 0 && p.Preferences == nil {
		p.Preferences = map[string]any{}
	}
	for k, v := range cli.Preferences {
		p.Preferences[k] = v
	}
	p.Arguments = append(p.Arguments, cli.Arguments...)
	p.Extensions = append(p.Extensions, cli.Extensions...)

	if err := p.Validate(); err != nil {
		return config.Options{}, err
	}
	return p.Options(), nil
}
