package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNestedTree(t *testing.T) {
	tests := []struct {
		name string
		flat map[string]any
		want map[string]any
	}{
		{
			name: "empty input",
			flat: map[string]any{},
			want: map[string]any{},
		},
		{
			name: "nil input",
			flat: nil,
			want: map[string]any{},
		},
		{
			name: "undotted key",
			flat: map[string]any{"homepage": "about:blank"},
			want: map[string]any{"homepage": "about:blank"},
		},
		{
			name: "siblings share parents",
			flat: map[string]any{"a.b.c": 1, "a.b.d": 2},
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": 1, "d": 2}}},
		},
		{
			name: "content settings",
			flat: map[string]any{
				"profile.default_content_setting_values.images":        2,
				"profile.default_content_setting_values.notifications": 2,
				"intl.accept_languages":                                "en-US,en",
			},
			want: map[string]any{
				"profile": map[string]any{
					"default_content_setting_values": map[string]any{
						"images":        2,
						"notifications": 2,
					},
				},
				"intl": map[string]any{"accept_languages": "en-US,en"},
			},
		},
		{
			// "a.b" sorts before "a.b.c", so the mapping replaces the scalar.
			name: "scalar then mapping at same path",
			flat: map[string]any{"a.b": 1, "a.b.c": 2},
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": 2}}},
		},
		{
			name: "mapping values are merged with dotted keys",
			flat: map[string]any{
				"profile":                  map[string]any{"name": "Person 1", "exit_type": "Normal"},
				"profile.exit_type":        "Crashed",
				"profile.content.cookies": 1,
			},
			want: map[string]any{
				"profile": map[string]any{
					"name":      "Person 1",
					"exit_type": "Crashed",
					"content":   map[string]any{"cookies": 1},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToNestedTree(tt.flat))
		})
	}
}

func TestMergeEntries_LaterEntryWins(t *testing.T) {
	t.Run("mapping then scalar", func(t *testing.T) {
		got := MergeEntries(
			Entry{Key: "a.b.c", Value: 2},
			Entry{Key: "a.b", Value: 1},
		)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": 1}}, got)
	})

	t.Run("scalar then mapping", func(t *testing.T) {
		got := MergeEntries(
			Entry{Key: "a.b", Value: 1},
			Entry{Key: "a.b.c", Value: 2},
		)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": 2}}}, got)
	})

	t.Run("scalar replaces scalar", func(t *testing.T) {
		got := MergeEntries(
			Entry{Key: "x.y", Value: "first"},
			Entry{Key: "x.y", Value: "second"},
		)
		assert.Equal(t, map[string]any{"x": map[string]any{"y": "second"}}, got)
	})
}

func TestDeepMerge_DoesNotMutateInputs(t *testing.T) {
	dst := map[string]any{"a": map[string]any{"b": 1}}
	src := map[string]any{"a": map[string]any{"c": 2}}

	got := DeepMerge(dst, src)

	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1, "c": 2}}, got)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1}}, dst)
	assert.Equal(t, map[string]any{"a": map[string]any{"c": 2}}, src)
}

func TestFlatten_InvertsToNestedTree(t *testing.T) {
	flats := []map[string]any{
		{},
		{"a": 1},
		{"a.b.c": 1, "a.b.d": 2, "a.e": "x"},
		{
			"profile.default_content_setting_values.images":      2,
			"profile.default_content_setting_values.popups":      2,
			"profile.password_manager_enabled":                   false,
			"download.default_directory":                         "/tmp/downloads",
			"download.prompt_for_download":                       false,
			"browser.enabled_labs_experiments":                   []any{"a@1"},
			"credentials_enable_service":                         false,
			"webkit.webprefs.fonts.standard.Zyyy":                "Arial",
			"intl.accept_languages":                              "de-DE",
			"translate_blocked_languages":                        []any{"en"},
			"devtools.preferences.currentDockState":              `"bottom"`,
			"profile.content_settings.exceptions.cookies.count":  3,
			"profile.content_settings.exceptions.images.enabled": true,
		},
	}

	for _, flat := range flats {
		assert.Equal(t, flat, Flatten(ToNestedTree(flat)))
	}
}

func TestToNestedTree_KeysAreUnique(t *testing.T) {
	flat := map[string]any{"a.b": 1, "a.c": 2, "d": 3}
	tree := ToNestedTree(flat)
	assert.Len(t, Flatten(tree), len(flat))
}
