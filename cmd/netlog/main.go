package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clientcmd "github.com/Feandil/netlog/internal/cmd/client"
	serverrun "github.com/Feandil/netlog/internal/cmd/server"
	cfgpkg "github.com/Feandil/netlog/internal/config"
	logpkg "github.com/Feandil/netlog/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// initialize logger for CLI
	// Respect NETLOG_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("NETLOG_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "netlog",
		Short: "netlog runtime CLI",
		Long:  "netlog records network connection events into an in-memory ring. This CLI manages the server and reads the log.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start netlog server (probes and HTTP API)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			httpAddr, _ := cmd.Flags().GetString("http")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			ringBytes, _ := cmd.Flags().GetInt("ring-bytes")
			pollMs, _ := cmd.Flags().GetInt("poll-ms")
			ratePerSec, _ := cmd.Flags().GetFloat64("rate-per-sec")
			tailFlushMs, _ := cmd.Flags().GetInt("tail-flush-ms")
			tailBuf, _ := cmd.Flags().GetInt("tail-buf")

			if configPath == "" {
				configPath = cfgpkg.DefaultConfigPath()
			}
			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if logLevel != "" {
				_ = os.Setenv("NETLOG_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("NETLOG_LOG_FORMAT", logFormat)
			}
			if tailFlushMs > 0 {
				_ = os.Setenv("NETLOG_TAIL_FLUSH_MS", fmt.Sprintf("%d", tailFlushMs))
			}
			if tailBuf > 0 {
				_ = os.Setenv("NETLOG_TAIL_BUF", fmt.Sprintf("%d", tailBuf))
			}
			if ringBytes > 0 {
				cfg.Ring.CapacityBytes = ringBytes
			}
			if pollMs > 0 {
				cfg.Probes.PollMs = pollMs
			}
			if ratePerSec > 0 {
				cfg.Probes.RatePerSec = ratePerSec
			}

			if err := serverrun.Run(ctx, serverrun.Options{
				HTTPAddr: httpAddr,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("config", os.Getenv("NETLOG_CONFIG"), "Config file (if not specified, searches the standard locations)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (overrides config)")
	serverStartCmd.Flags().String("log-level", os.Getenv("NETLOG_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("NETLOG_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().Int("ring-bytes", 0, "Ring capacity in bytes (overrides config)")
	serverStartCmd.Flags().Int("poll-ms", 0, "Socket table poll period in ms (overrides config)")
	serverStartCmd.Flags().Float64("rate-per-sec", 0, "Max events per second appended to the ring (0 = unlimited)")
	serverStartCmd.Flags().Int("tail-flush-ms", 0, "Tail flush window in ms (default 0)")
	serverStartCmd.Flags().Int("tail-buf", 0, "Tail buffer size per subscriber (default 1024)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// client commands (read the log, manage whitelist and probes)
	rootCmd.AddCommand(clientcmd.NewRoot(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("NETLOG_API"); v != "" {
		return v
	}
	return "http://127.0.0.1:8081"
}
