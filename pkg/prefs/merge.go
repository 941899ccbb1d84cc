// Package prefs converts dot-notation browser preferences into the nested
// JSON tree Chromium keeps in <profile>/Default/Preferences, and reads and
// writes that file.
package prefs

import (
	"sort"
	"strings"
)

// Entry is one flat preference, e.g. {"profile.default_content_setting_values.images", 2}.
type Entry struct {
	Key   string
	Value any
}

// ToNestedTree expands flat dot-notation keys into a nested tree.
//
// Keys are merged in lexicographic order, so a key is always merged before
// any key it is a dotted prefix of. Use MergeEntries to control the order.
func ToNestedTree(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: flat[k]})
	}
	return MergeEntries(entries...)
}

// MergeEntries expands entries in the given order and deep-merges them.
// Mappings at the same path are unioned recursively; on any other collision
// the later entry replaces whatever is there.
func MergeEntries(entries ...Entry) map[string]any {
	result := make(map[string]any)
	for _, e := range entries {
		result = DeepMerge(result, undot(e.Key, e.Value))
	}
	return result
}

// DeepMerge returns dst with src merged in. Neither input is modified.
func DeepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		existing, ok := out[k].(map[string]any)
		incoming, isMap := v.(map[string]any)
		if ok && isMap {
			out[k] = DeepMerge(existing, incoming)
			continue
		}
		out[k] = v
	}
	return out
}

// undot turns "a.b.c", v into {"a": {"b": {"c": v}}}.
func undot(key string, value any) map[string]any {
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return map[string]any{key: value}
	}
	return map[string]any{head: undot(rest, value)}
}

// Flatten is the inverse of ToNestedTree for trees whose leaves are not
// empty mappings: every leaf becomes one dot-notation key.
func Flatten(tree map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", tree)
	return out
}

func flattenInto(out map[string]any, prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok && len(child) > 0 {
			flattenInto(out, key, child)
			continue
		}
		out[key] = v
	}
}
