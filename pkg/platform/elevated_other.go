//go:build !unix && !windows

package platform

func isElevated() bool {
	return false
}
