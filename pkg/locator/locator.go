// Package locator finds a Chromium-family browser executable on the host.
//
// Candidates are built from the PATH (POSIX) or from well-known install
// roots (Windows), filtered to existing executables, and the shortest path
// wins. The shortest-path rule favours system installs such as
// /usr/bin/chromium over nested or versioned copies.
package locator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/entrhq/launchpad/pkg/platform"
	"github.com/entrhq/launchpad/pkg/types"
)

// posixNames are the executable basenames searched on every PATH entry.
var posixNames = []string{
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"google-chrome-stable",
}

// darwinApps are fixed macOS application bundle binaries.
var darwinApps = []string{
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// windowsRoots are environment variables naming install roots.
var windowsRoots = []string{
	"PROGRAMFILES",
	"PROGRAMFILES(X86)",
	"LOCALAPPDATA",
	"PROGRAMW6432",
}

// windowsSubpaths are install locations relative to each root.
var windowsSubpaths = []string{
	"Google/Chrome/Application",
	"Google/Chrome Beta/Application",
	"Google/Chrome Canary/Application",
}

const notFoundMessage = "could not find a valid chrome browser binary. " +
	"please make sure chrome is installed, or supply an explicit executable path"

// Logger receives per-candidate diagnostics.
type Logger interface {
	Debugf(format string, v ...interface{})
}

// Locator searches for a browser executable.
type Locator struct {
	// Platform selects the search strategy.
	Platform platform.Probe

	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// IsExecutable reports whether a candidate exists and may be executed.
	// Defaults to a check of the real filesystem.
	IsExecutable func(string) bool

	Logger Logger
}

// New returns a Locator for the given platform using the real environment.
func New(p platform.Probe, logger Logger) *Locator {
	return &Locator{Platform: p, Logger: logger}
}

// Candidates returns every path the locator would consider, in discovery
// order, before any filtering.
func (l *Locator) Candidates() []string {
	var candidates []string
	if l.Platform.IsPosix() {
		for _, dir := range splitList(l.getenv("PATH"), ":") {
			for _, name := range posixNames {
				candidates = append(candidates, dir+"/"+name)
			}
		}
		if l.Platform.IsDarwin() {
			candidates = append(candidates, darwinApps...)
		}
		return candidates
	}

	for _, key := range windowsRoots {
		root := l.getenv(key)
		if root == "" {
			continue
		}
		for _, sub := range windowsSubpaths {
			candidates = append(candidates, strings.Join([]string{root, sub, "chrome.exe"}, `\`))
		}
	}
	return candidates
}

// LocateAll returns every usable executable in discovery order.
// It fails with a NotFound error when there is none.
func (l *Locator) LocateAll() ([]string, error) {
	found := l.filter(l.Candidates())
	if len(found) == 0 {
		return nil, types.NewError(types.KindNotFound, "locate browser", "", notFoundMessage)
	}
	return found, nil
}

// Locate returns the single best executable: the shortest path, ties going
// to the first discovered.
func (l *Locator) Locate() (string, error) {
	found, err := l.LocateAll()
	if err != nil {
		return "", err
	}
	return filepath.Clean(Shortest(found)), nil
}

// Shortest returns the path with the fewest characters, preferring the
// earliest on ties. It returns "" for an empty slice.
func Shortest(paths []string) string {
	var winner string
	for i, p := range paths {
		if i == 0 || len(p) < len(winner) {
			winner = p
		}
	}
	return winner
}

func (l *Locator) filter(candidates []string) []string {
	isExec := l.IsExecutable
	if isExec == nil {
		isExec = isExecutable
	}

	var found []string
	for _, candidate := range candidates {
		if isExec(candidate) {
			l.debugf("%s is a valid candidate", candidate)
			found = append(found, candidate)
			continue
		}
		l.debugf("%s is not a valid candidate: missing or not executable", candidate)
	}
	return found
}

func (l *Locator) getenv(key string) string {
	if l.Getenv != nil {
		return l.Getenv(key)
	}
	return os.Getenv(key)
}

func (l *Locator) debugf(format string, v ...interface{}) {
	if l.Logger != nil {
		l.Logger.Debugf(format, v...)
	}
}

// splitList splits a search-path variable. Unlike filepath.SplitList it
// uses the target platform's separator rather than the host's.
func splitList(value, sep string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, sep)
}
