package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbe_IsPosix(t *testing.T) {
	tests := []struct {
		os   string
		want bool
	}{
		{"linux", true},
		{"darwin", true},
		{"freebsd", true},
		{"android", true},
		{"windows", false},
		{"plan9", false},
		{"js", false},
		{"made-up", false},
	}

	for _, tt := range tests {
		t.Run(tt.os, func(t *testing.T) {
			assert.Equal(t, tt.want, Probe{OS: tt.os}.IsPosix())
		})
	}
}

func TestProbe_DefaultsToRuntime(t *testing.T) {
	p := Current()
	assert.Equal(t, runtime.GOOS, p.GOOS())
	assert.Equal(t, runtime.GOOS == "windows", p.IsWindows())
	assert.Equal(t, runtime.GOOS == "darwin", p.IsDarwin())
}

func TestProbe_ElevatedOverride(t *testing.T) {
	assert.True(t, Probe{Elevated: func() bool { return true }}.IsElevated())
	assert.False(t, Probe{Elevated: func() bool { return false }}.IsElevated())
}

func TestProbe_ElevatedDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = Current().IsElevated()
	})
}
