//go:build !amd64 && !arm64

package cpuinfo

// No feature detection outside amd64 and arm64 for now.
func features() []string {
	return nil
}
