package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigPathXDG(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "netlog"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := filepath.Join(dir, "netlog", "config.yaml")
	if err := os.WriteFile(file, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_CONFIG_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	})

	if got := DefaultConfigPath(); got != file {
		t.Errorf("Expected %s, got %s", file, got)
	}
}

func TestDefaultConfigPathPrefersYAML(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "netlog")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"config.json", "config.yaml"} {
		if err := os.WriteFile(filepath.Join(cfgDir, name), []byte("{}\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_CONFIG_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	})

	if got := DefaultConfigPath(); got != filepath.Join(cfgDir, "config.yaml") {
		t.Errorf("expected yaml preferred, got %s", got)
	}
}

func TestDefaultConfigPathNoHome(t *testing.T) {
	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	originalHome := os.Getenv("HOME")
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	os.Unsetenv("HOME")
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_CONFIG_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
		if originalHome != "" {
			os.Setenv("HOME", originalHome)
		}
	})

	// Empty XDG dir, no /etc/netlog in test environments, no home: the
	// lookup may still land on /etc/netlog on a configured host, so only
	// require that it does not panic and returns a file if anything.
	if got := DefaultConfigPath(); got != "" && !isFile(got) {
		t.Errorf("returned non-file %s", got)
	}
}
