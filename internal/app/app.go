package app

import (
	"os"
	"path/filepath"
)

// DefaultHome returns $WALLETLINK_HOME, or ~/.walletlink.
func DefaultHome() string {
	if h := os.Getenv("WALLETLINK_HOME"); h != "" {
		return h
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".walletlink"
	}
	return filepath.Join(dir, ".walletlink")
}
