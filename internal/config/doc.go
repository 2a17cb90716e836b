// Package config loads the netlog configuration.
//
// Precedence is fixed: built-in defaults, then an optional JSON or YAML
// file, then NETLOG_* environment variables on top. DefaultConfigPath
// searches the usual locations (XDG config dir, /etc/netlog, a home
// dotfile) when no file is named explicitly.
//
//	cfg, err := config.Load(config.DefaultConfigPath())
//	if err != nil {
//	    return err
//	}
//	config.FromEnv(&cfg)
package config
