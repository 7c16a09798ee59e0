package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the directory holding the application's files,
// falling back to an OS-specific path under the home directory.
func ConfigDir(appName string) (string, error) {
	if appName == "" {
		return "", fmt.Errorf("resolve config dir: app name is empty")
	}

	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, appName), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		return "", fmt.Errorf("resolve config dir: %w", homeErr)
	}

	return filepath.Join(fallbackConfigDir(homeDir), appName), nil
}
