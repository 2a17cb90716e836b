package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath returns the first config file found in the standard
// locations, or empty when none exists. Lookup order: XDG config dir,
// /etc/netlog, a dotfile in the user's home directory.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if p := firstFile(filepath.Join(xdg, "netlog")); p != "" {
			return p
		}
	}
	if p := firstFile("/etc/netlog"); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return ""
	}
	for _, name := range []string{".netlog.yaml", ".netlog.yml", ".netlog.json"} {
		p := filepath.Join(homeDir, name)
		if isFile(p) {
			return p
		}
	}
	return ""
}

// firstFile returns the first config file under dir, trying the supported
// extensions in order.
func firstFile(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		p := filepath.Join(dir, name)
		if isFile(p) {
			return p
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
