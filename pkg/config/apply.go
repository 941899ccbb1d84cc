package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/entrhq/launchpad/pkg/prefs"
	"github.com/entrhq/launchpad/pkg/types"
)

// ApplyResult reports what ApplyPreferences did.
type ApplyResult int

const (
	// ApplySkipped means there was nothing to do: no preferences, or they
	// were already applied.
	ApplySkipped ApplyResult = iota
	// ApplyApplied means the preference file was written.
	ApplyApplied
	// ApplyFailed means the attempt failed and was logged; see
	// LastApplyError. A later call will try again.
	ApplyFailed
)

func (r ApplyResult) String() string {
	switch r {
	case ApplySkipped:
		return "skipped"
	case ApplyApplied:
		return "applied"
	case ApplyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PreferencesPath returns <UserDataDir>/Default/Preferences.
func (c *Config) PreferencesPath() string {
	return prefs.PathFor(c.userDataDir)
}

// ApplyPreferences writes the configured preferences into the profile.
//
// It runs at most once successfully per Config. The existing file is read
// (absent counts as empty), the flat preferences replace its top-level
// keys, and the result is expanded with prefs.ToNestedTree and written
// back. Failures are logged and swallowed: preferences never block a
// launch.
//
// The read-modify-write is not coordinated across Config values; two
// configs sharing a profile directory can lose each other's updates.
func (c *Config) ApplyPreferences(ctx context.Context) ApplyResult {
	if len(c.preferences) == 0 || c.preferencesApplied {
		return ApplySkipped
	}

	path := c.PreferencesPath()
	if err := c.applyPreferences(ctx, path); err != nil {
		c.lastApplyErr = err
		c.logger.Warnf("failed to apply preferences: %v", err)
		return ApplyFailed
	}

	c.preferencesApplied = true
	c.lastApplyErr = nil
	c.logger.Infof("applied preferences to %s", path)
	return ApplyApplied
}

// LastApplyError returns the error swallowed by the most recent failed
// ApplyPreferences call, or nil.
func (c *Config) LastApplyError() error {
	return c.lastApplyErr
}

func (c *Config) applyPreferences(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.WrapError(types.KindIO, "create preferences directory", dir, err)
	}

	existing, err := c.store.Read(ctx, path)
	switch {
	case errors.Is(err, types.ErrNotFound):
		existing = map[string]any{}
	case err != nil:
		return err
	case existing == nil:
		existing = map[string]any{}
	}

	for k, v := range c.preferences {
		existing[k] = v
	}

	return c.store.Write(ctx, prefs.ToNestedTree(existing), path)
}
