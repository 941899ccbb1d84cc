// Package config holds the launch configuration for one browser session:
// the profile directory, the executable, preferences to persist into the
// profile, extensions and the command-line arguments.
//
// A Config is built from Options, adjusted through AddArgument,
// AddExtension and SetUserDataDir, and finally rendered into an argument
// list for the process launcher. It is not safe for concurrent mutation.
package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/entrhq/launchpad/pkg/args"
	"github.com/entrhq/launchpad/pkg/extension"
	"github.com/entrhq/launchpad/pkg/locator"
	"github.com/entrhq/launchpad/pkg/logging"
	"github.com/entrhq/launchpad/pkg/platform"
	"github.com/entrhq/launchpad/pkg/prefs"
	"github.com/entrhq/launchpad/pkg/types"
)

const (
	// DefaultLanguage is used when Options.Language is empty.
	DefaultLanguage = "en-US"

	// ProfilePattern names generated profile directories in the temp dir.
	ProfilePattern = "launchpad_profile_*"
)

// Logger is the logging surface the config and its collaborators use.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// PreferenceStore reads and writes the profile preference file.
type PreferenceStore interface {
	Read(ctx context.Context, path string) (map[string]any, error)
	Write(ctx context.Context, tree map[string]any, path string) error
}

// ExecutableLocator finds a browser binary.
type ExecutableLocator interface {
	Locate() (string, error)
}

// ExtensionResolver turns an extension reference into a loadable directory.
type ExtensionResolver interface {
	Resolve(path string) (string, error)
}

// Options enumerates every recognized setting. The zero value is a valid,
// sandboxed, headful configuration with a generated profile.
type Options struct {
	// UserDataDir is the profile directory. Empty generates one in the
	// system temp directory.
	UserDataDir string

	// ExecutablePath skips discovery when set.
	ExecutablePath string

	Headless  bool
	NoSandbox bool

	// Expert disables web security and site isolation trials.
	Expert bool

	// Language defaults to DefaultLanguage. It is kept for the launcher and
	// not rendered as an argument.
	Language string

	// Preferences are flat dot-notation keys written into
	// <UserDataDir>/Default/Preferences on render.
	Preferences map[string]any

	// Arguments are extra command-line arguments, checked like AddArgument.
	Arguments []string

	// Extensions are resolved like AddExtension.
	Extensions []string

	// Host and Port override the remote debugging endpoint when non-zero.
	Host string
	Port int

	// Extras are registered forward-compatible options, see Extras.
	Extras map[string]any

	Platform platform.Probe
	Logger   Logger

	// Collaborators, defaulted when nil.
	Store    PreferenceStore
	Locator  ExecutableLocator
	Resolver ExtensionResolver
}

// Config describes one browser launch.
type Config struct {
	userDataDir       string
	usesCustomDataDir bool
	executablePath    string

	headless       bool
	sandboxEnabled bool
	expertMode     bool
	language       string
	host           string
	port           int

	preferences    map[string]any
	extraArguments []string
	extensions     []string
	extras         Extras

	preferencesApplied bool
	lastApplyErr       error

	logger   Logger
	store    PreferenceStore
	locator  ExecutableLocator
	resolver ExtensionResolver
}

// New builds a Config from opts.
//
// It fails with an InvalidArgument error for reserved arguments or unknown
// extras, with an IO error if a profile directory cannot be generated, and
// with the resolver's error for an unusable extension. The executable is
// not looked up until ExecutablePath is called.
func New(opts Options) (*Config, error) {
	c := &Config{
		executablePath: opts.ExecutablePath,
		headless:       opts.Headless,
		sandboxEnabled: !opts.NoSandbox,
		expertMode:     opts.Expert,
		language:       opts.Language,
		host:           opts.Host,
		port:           opts.Port,
		preferences:    make(map[string]any, len(opts.Preferences)),
		extras:         NewExtras(),
		logger:         opts.Logger,
		store:          opts.Store,
		locator:        opts.Locator,
		resolver:       opts.Resolver,
	}

	if c.logger == nil {
		c.logger = logging.Discard("config")
	}
	if c.store == nil {
		c.store = prefs.NewStore(prefs.DefaultPoolSize)
	}
	if c.locator == nil {
		c.locator = locator.New(opts.Platform, c.logger)
	}
	if c.resolver == nil {
		c.resolver = extension.NewResolver(c.logger)
	}
	if c.language == "" {
		c.language = DefaultLanguage
	}

	if err := c.extras.SetData(opts.Extras); err != nil {
		return nil, err
	}

	for k, v := range opts.Preferences {
		c.preferences[k] = v
	}

	for _, arg := range opts.Arguments {
		if err := c.AddArgument(arg); err != nil {
			return nil, err
		}
	}

	// Chromium refuses to start sandboxed as root
	if c.sandboxEnabled && opts.Platform.IsPosix() && opts.Platform.IsElevated() {
		c.logger.Infof("detected root usage, disabling sandbox mode")
		c.sandboxEnabled = false
	}

	if opts.UserDataDir != "" {
		if err := c.SetUserDataDir(opts.UserDataDir); err != nil {
			return nil, err
		}
	} else {
		dir, err := os.MkdirTemp("", ProfilePattern)
		if err != nil {
			return nil, types.WrapError(types.KindIO, "create profile directory", os.TempDir(), err)
		}
		c.userDataDir = dir
	}

	for _, ext := range opts.Extensions {
		if err := c.AddExtension(ext); err != nil {
			if !c.usesCustomDataDir {
				_ = os.RemoveAll(c.userDataDir)
			}
			return nil, err
		}
	}

	return c, nil
}

// UserDataDir returns the profile directory.
func (c *Config) UserDataDir() string { return c.userDataDir }

// UsesCustomDataDir reports whether the profile directory was supplied by
// the caller rather than generated.
func (c *Config) UsesCustomDataDir() bool { return c.usesCustomDataDir }

// SetUserDataDir points the config at a caller-owned profile directory.
// As a side effect UsesCustomDataDir becomes true, so the launcher will not
// delete it on cleanup.
func (c *Config) SetUserDataDir(path string) error {
	if path == "" {
		return types.NewError(types.KindInvalidArgument, "set user data dir", "", "path cannot be empty")
	}
	c.userDataDir = path
	c.usesCustomDataDir = true
	return nil
}

// Headless reports whether the browser runs without a window.
func (c *Config) Headless() bool {
	return c.headless
}

// SandboxEnabled reports whether the browser sandbox stays on. It is false
// when disabled by option or when running elevated on a POSIX host.
func (c *Config) SandboxEnabled() bool {
	return c.sandboxEnabled
}

func (c *Config) Expert() bool {
	return c.expertMode
}

func (c *Config) Language() string {
	return c.language
}

func (c *Config) Host() string {
	return c.host
}

func (c *Config) Port() int {
	return c.port
}

// PreferencesApplied reports whether ApplyPreferences has succeeded.
func (c *Config) PreferencesApplied() bool {
	return c.preferencesApplied
}

// Preferences returns a copy of the flat preferences.
func (c *Config) Preferences() map[string]any {
	out := make(map[string]any, len(c.preferences))
	for k, v := range c.preferences {
		out[k] = v
	}
	return out
}

// Arguments returns a copy of the extra arguments in insertion order.
func (c *Config) Arguments() []string {
	return append([]string(nil), c.extraArguments...)
}

// Extensions returns a copy of the resolved extension directories.
func (c *Config) Extensions() []string {
	return append([]string(nil), c.extensions...)
}

// AddArgument appends an extra command-line argument. Arguments that would
// set the headless mode, the profile directory, the sandbox or the
// language are rejected with an InvalidArgument error; use the matching
// option instead.
func (c *Config) AddArgument(arg string) error {
	if err := args.CheckReserved(arg); err != nil {
		return err
	}
	c.extraArguments = append(c.extraArguments, arg)
	return nil
}

// AddExtension resolves path and appends the result. On failure the
// extension list is left untouched.
func (c *Config) AddExtension(path string) error {
	dir, err := c.resolver.Resolve(path)
	if err != nil {
		return err
	}
	c.extensions = append(c.extensions, dir)
	return nil
}

// BrowserArgs returns the defaults plus the extra arguments, sorted. It is
// an inspection view; Render produces the actual command line.
func (c *Config) BrowserArgs() []string {
	return args.Sorted(c.extraArguments)
}

// ExecutablePath returns the configured executable, locating one on first
// use and caching the result.
func (c *Config) ExecutablePath() (string, error) {
	if c.executablePath != "" {
		return c.executablePath, nil
	}
	path, err := c.locator.Locate()
	if err != nil {
		return "", err
	}
	c.executablePath = path
	return path, nil
}

// Extra returns a registered extra by name.
func (c *Config) Extra(key string) (any, bool) {
	v, ok := c.extras.Data()[key]
	return v, ok
}

// ForceCleanup reports whether generated directories should be removed
// when the session ends.
func (c *Config) ForceCleanup() bool { return c.extras.ForceCleanup }

// AutodiscoverTargets reports whether the launcher should attach to new
// targets automatically.
func (c *Config) AutodiscoverTargets() bool { return c.extras.AutodiscoverTargets }

// Render applies preferences to the profile, best effort, and returns the
// command-line arguments. The executable path is not part of the result.
func (c *Config) Render(ctx context.Context) []string {
	c.ApplyPreferences(ctx)

	return args.Render(args.Input{
		UserDataDir: c.userDataDir,
		Expert:      c.expertMode,
		Headless:    c.headless,
		Sandbox:     c.sandboxEnabled,
		Host:        c.host,
		Port:        c.port,
		Extra:       c.extraArguments,
		Extensions:  c.extensions,
	})
}

// String lists the non-empty public settings, one per line.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config")

	field := func(name string, value any) {
		fmt.Fprintf(&b, "\n\t%s = %v", name, value)
	}

	field("user_data_dir", c.userDataDir)
	if c.usesCustomDataDir {
		field("uses_custom_data_dir", true)
	}
	if c.executablePath != "" {
		field("browser_executable_path", c.executablePath)
	}
	if c.headless {
		field("headless", true)
	}
	if c.sandboxEnabled {
		field("sandbox", true)
	}
	if c.expertMode {
		field("expert", true)
	}
	field("lang", c.language)
	if c.host != "" {
		field("host", c.host)
	}
	if c.port != 0 {
		field("port", c.port)
	}
	if len(c.preferences) > 0 {
		keys := make([]string, 0, len(c.preferences))
		for k := range c.preferences {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			field("prefs."+k, c.preferences[k])
		}
	}
	if len(c.extraArguments) > 0 {
		field("browser_args", c.BrowserArgs())
	}
	if len(c.extensions) > 0 {
		field("extensions", c.extensions)
	}
	if c.extras.ForceCleanup {
		field(ExtraForceCleanup, true)
	}
	if c.extras.AutodiscoverTargets {
		field(ExtraAutodiscoverTargets, true)
	}
	return b.String()
}
