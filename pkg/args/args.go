// Package args assembles the browser command line.
package args

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/entrhq/launchpad/pkg/types"
)

const (
	disableIsolation     = "--disable-features=IsolateOrigins,site-per-process"
	disableCrashedBubble = "--disable-session-crashed-bubble"
)

// baseline is the fixed default argument set.
var baseline = []string{
	"--remote-allow-origins=*",
	"--no-first-run",
	"--no-service-autorun",
	"--no-default-browser-check",
	"--homepage=about:blank",
	"--no-pings",
	"--password-store=basic",
	"--disable-infobars",
	"--disable-breakpad",
	"--disable-component-update",
	"--disable-backgrounding-occluded-windows",
	"--disable-renderer-backgrounding",
	"--disable-background-networking",
	"--disable-dev-shm-usage",
	disableIsolation,
	disableCrashedBubble,
	"--disable-search-engine-choice-screen",
}

// reserved markers may only be set through dedicated config fields.
var reserved = []string{
	"headless",
	"data-dir",
	"data_dir",
	"no-sandbox",
	"no_sandbox",
	"lang",
}

// Baseline returns a copy of the default arguments in declaration order.
func Baseline() []string {
	return append([]string(nil), baseline...)
}

// CheckReserved rejects arguments that collide with a dedicated setting.
func CheckReserved(arg string) error {
	lower := strings.ToLower(arg)
	for _, marker := range reserved {
		if strings.Contains(lower, marker) {
			return types.NewError(types.KindInvalidArgument, "add argument", "",
				fmt.Sprintf("%q not allowed, set it through the matching config option instead", arg))
		}
	}
	return nil
}

// Input is everything Render needs from a launch configuration.
type Input struct {
	UserDataDir string
	Expert      bool
	Headless    bool
	Sandbox     bool
	Host        string
	Port        int
	Extra       []string
	Extensions  []string
}

// Render builds the argument list:
//
//  1. baseline, sorted
//  2. --user-data-dir
//  3. isolation and crash bubble flags again
//  4. expert flags
//  5. extra arguments not yet present, then --load-extension
//  6. headless, no-sandbox, debugging host and port
//
// Duplicates are removed at the end, keeping first occurrences, so the
// sorted baseline always leads.
func Render(in Input) []string {
	out := Baseline()
	sort.Strings(out)

	out = append(out, "--user-data-dir="+in.UserDataDir)
	out = append(out, disableIsolation, disableCrashedBubble)

	if in.Expert {
		out = append(out, "--disable-web-security", "--disable-site-isolation-trials")
	}

	for _, arg := range in.Extra {
		if !contains(out, arg) {
			out = append(out, arg)
		}
	}

	if len(in.Extensions) > 0 {
		out = append(out, "--load-extension="+strings.Join(in.Extensions, ","))
	}
	if in.Headless {
		out = append(out, "--headless=new")
	}
	if !in.Sandbox {
		out = append(out, "--no-sandbox")
	}
	if in.Host != "" {
		out = append(out, "--remote-debugging-host="+in.Host)
	}
	if in.Port != 0 {
		out = append(out, "--remote-debugging-port="+strconv.Itoa(in.Port))
	}

	return dedupe(out)
}

// Sorted returns baseline plus extra, sorted. Duplicates are kept; this is
// an inspection view, not the rendered command line.
func Sorted(extra []string) []string {
	out := append(Baseline(), extra...)
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
