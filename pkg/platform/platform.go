// Package platform answers the two questions launch configuration needs
// about the host: which OS family it is, and whether the process runs with
// elevated privileges.
package platform

import "runtime"

// posixFamily is the fixed set of GOOS values treated as POSIX.
var posixFamily = map[string]bool{
	"aix":       true,
	"android":   true,
	"darwin":    true,
	"dragonfly": true,
	"freebsd":   true,
	"illumos":   true,
	"linux":     true,
	"netbsd":    true,
	"openbsd":   true,
	"solaris":   true,
}

// Probe describes the host platform. The zero value probes the running
// system; tests and callers targeting another platform set the fields.
type Probe struct {
	// OS is a GOOS identifier. Empty means runtime.GOOS.
	OS string

	// Elevated overrides the privilege check when non-nil.
	Elevated func() bool
}

// Current returns a Probe for the running system.
func Current() Probe {
	return Probe{}
}

// GOOS returns the identifier the probe reports.
func (p Probe) GOOS() string {
	if p.OS == "" {
		return runtime.GOOS
	}
	return p.OS
}

// IsPosix reports whether the OS belongs to the POSIX family.
// Unknown identifiers are not POSIX.
func (p Probe) IsPosix() bool {
	return posixFamily[p.GOOS()]
}

// IsDarwin reports whether the OS is macOS.
func (p Probe) IsDarwin() bool {
	return p.GOOS() == "darwin"
}

// IsWindows reports whether the OS is Windows.
func (p Probe) IsWindows() bool {
	return p.GOOS() == "windows"
}

// IsElevated reports whether the process runs as root (POSIX) or with an
// elevated administrator token (Windows).
func (p Probe) IsElevated() bool {
	if p.Elevated != nil {
		return p.Elevated()
	}
	return isElevated()
}
