//go:build !windows

package capture

// SetDPIAware is a no-op outside Windows.
func SetDPIAware() error { return nil }
