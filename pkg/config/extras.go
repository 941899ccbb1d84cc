package config

import (
	"fmt"
	"sort"

	"github.com/entrhq/launchpad/pkg/types"
)

const (
	// ExtraForceCleanup asks the launcher to delete the generated profile
	// and extension directories when the session ends.
	ExtraForceCleanup = "force_cleanup"

	// ExtraAutodiscoverTargets tells the launcher to attach to targets the
	// browser creates on its own.
	ExtraAutodiscoverTargets = "autodiscover_targets"

	defaultForceCleanup        = false
	defaultAutodiscoverTargets = true
)

// Extras holds the forward-compatible options. Only registered keys are
// accepted.
type Extras struct {
	ForceCleanup        bool `json:"force_cleanup"`
	AutodiscoverTargets bool `json:"autodiscover_targets"`
}

// NewExtras returns extras with default values.
func NewExtras() Extras {
	return Extras{
		ForceCleanup:        defaultForceCleanup,
		AutodiscoverTargets: defaultAutodiscoverTargets,
	}
}

// Data returns the extras keyed by their registered names.
func (e Extras) Data() map[string]any {
	return map[string]any{
		ExtraForceCleanup:        e.ForceCleanup,
		ExtraAutodiscoverTargets: e.AutodiscoverTargets,
	}
}

// SetData updates extras from a key/value map. Unknown keys and values of
// the wrong type are rejected.
func (e *Extras) SetData(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	// Sorted so the reported error does not depend on map order
	sort.Strings(keys)

	for _, key := range keys {
		value := data[key]
		switch key {
		case ExtraForceCleanup:
			enabled, ok := value.(bool)
			if !ok {
				return invalidExtra(key, value)
			}
			e.ForceCleanup = enabled

		case ExtraAutodiscoverTargets:
			enabled, ok := value.(bool)
			if !ok {
				return invalidExtra(key, value)
			}
			e.AutodiscoverTargets = enabled

		default:
			return types.NewError(types.KindInvalidArgument, "set extra", "",
				fmt.Sprintf("unknown option %q", key))
		}
	}
	return nil
}

func invalidExtra(key string, value any) error {
	return types.NewError(types.KindInvalidArgument, "set extra", "",
		fmt.Sprintf("invalid value type for %s: expected bool, got %T", key, value))
}
