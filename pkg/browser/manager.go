// Package browser launches Chromium from a launch config through
// Playwright and tears it down again.
//
// The config's rendered argument list is handed to Playwright as extra
// arguments. Settings Playwright owns itself (profile directory, headless
// mode, sandbox, debugging transport) are translated into launch options
// instead of raw flags.
package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/launchpad/pkg/config"
	"github.com/entrhq/launchpad/pkg/extension"
)

// Logger receives lifecycle messages.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// ownedFlags are set through launch options, never as raw arguments.
var ownedFlags = []string{
	"--user-data-dir=",
	"--remote-debugging-host=",
	"--remote-debugging-port=",
	"--headless",
	"--no-sandbox",
}

// LaunchArgs filters a rendered argument list down to what Playwright
// accepts as extra arguments.
func LaunchArgs(rendered []string) []string {
	out := make([]string, 0, len(rendered))
	for _, arg := range rendered {
		if isOwned(arg) {
			continue
		}
		out = append(out, arg)
	}
	return out
}

func isOwned(arg string) bool {
	for _, prefix := range ownedFlags {
		if strings.HasPrefix(arg, prefix) {
			return true
		}
	}
	return false
}

// CleanupDirs returns the directories to delete when a session for cfg
// ends: nothing unless force_cleanup is set, and then only the generated
// profile directory and archive extraction directories, never paths the
// caller supplied.
func CleanupDirs(cfg *config.Config) []string {
	if !cfg.ForceCleanup() {
		return nil
	}

	var dirs []string
	if !cfg.UsesCustomDataDir() {
		dirs = append(dirs, cfg.UserDataDir())
	}
	for _, dir := range cfg.Extensions() {
		if strings.HasPrefix(filepath.Base(dir), extension.TempPrefix) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// SessionManager owns the Playwright driver and the running sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	initialized bool
	logger      Logger

	// removeAll deletes cleanup directories; replaced in tests
	removeAll func(string) error
}

// NewSessionManager creates a new session manager.
func NewSessionManager(logger Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		logger:      logger,
		removeAll:   os.RemoveAll,
	}
}

// Initialize installs the Playwright driver if needed and starts it.
// Browsers are not downloaded: sessions run the config's executable.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose:             false,
		SkipInstallBrowsers: true,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// StartSession renders cfg, which applies its preferences, and launches
// the browser on cfg's profile directory.
func (m *SessionManager) StartSession(ctx context.Context, name string, cfg *config.Config, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}
	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	executable, err := cfg.ExecutablePath()
	if err != nil {
		return nil, err
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	launchArgs := LaunchArgs(cfg.Render(ctx))
	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		ExecutablePath:  playwright.String(executable),
		Args:            launchArgs,
		Headless:        playwright.Bool(cfg.Headless()),
		ChromiumSandbox: playwright.Bool(cfg.SandboxEnabled()),
		Locale:          playwright.String(cfg.Language()),
		Timeout:         playwright.Float(opts.Timeout),
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	}

	if len(cfg.Extensions()) > 0 {
		// Playwright disables extensions by default
		launchOpts.IgnoreDefaultArgs = []string{"--disable-extensions"}
	}

	browserContext, err := m.playwright.Chromium.LaunchPersistentContext(cfg.UserDataDir(), launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	var page playwright.Page
	if pages := browserContext.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = browserContext.NewPage(); err != nil {
		_ = browserContext.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	session := &Session{
		Name:           name,
		Context:        browserContext,
		Page:           page,
		UserDataDir:    cfg.UserDataDir(),
		ExecutablePath: executable,
		Args:           launchArgs,
		Headless:       cfg.Headless(),
		cleanup:        CleanupDirs(cfg),
		CreatedAt:      time.Now(),
	}

	m.sessions[name] = session
	m.logf("started session %q with %s", name, executable)
	return session, nil
}

// CloseSession closes the browser and removes the session's generated
// directories when force_cleanup was set.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	m.closeLocked(session)
	delete(m.sessions, name)
	return nil
}

// closeLocked closes the browser and removes cleanup directories.
// Errors are logged; closing continues.
func (m *SessionManager) closeLocked(session *Session) {
	if session.Context != nil {
		if err := session.Context.Close(); err != nil {
			m.warnf("closing session %q: %v", session.Name, err)
		}
	}
	for _, dir := range session.cleanup {
		if err := m.removeAll(dir); err != nil {
			m.warnf("removing %s: %v", dir, err)
		}
	}
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}
	return session, nil
}

// ListSessions returns information about all active sessions.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, SessionInfo{
			Name:        session.Name,
			UserDataDir: session.UserDataDir,
			Headless:    session.Headless,
			CreatedAt:   session.CreatedAt,
		})
	}
	return infos
}

// Shutdown closes all sessions and stops Playwright.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		m.closeLocked(session)
		delete(m.sessions, name)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

func (m *SessionManager) logf(format string, v ...interface{}) {
	if m.logger != nil {
		m.logger.Infof(format, v...)
	}
}

func (m *SessionManager) warnf(format string, v ...interface{}) {
	if m.logger != nil {
		m.logger.Warnf(format, v...)
	}
}
