package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is a browser launched from a rendered config.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Context is the persistent browser context bound to the profile dir
	Context playwright.BrowserContext

	// Page is the first page of the context
	Page playwright.Page

	// UserDataDir is the profile directory the browser runs on
	UserDataDir string

	// ExecutablePath is the binary that was launched
	ExecutablePath string

	// Args are the arguments handed to the browser
	Args []string

	Headless bool

	// cleanup lists directories removed when the session closes
	cleanup []string

	CreatedAt time.Time
}

// SessionOptions configures a launch.
type SessionOptions struct {
	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the launch and default operation timeout (milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name        string
	UserDataDir string
	Headless    bool
	CreatedAt   time.Time
}

// Default values for launches
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
)
