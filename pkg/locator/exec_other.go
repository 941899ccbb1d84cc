//go:build !unix

package locator

import "os"

// Windows has no execute bit; an existing regular file is enough.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
