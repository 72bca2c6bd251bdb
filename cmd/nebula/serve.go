package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/nebula-arcade/internal/feed"
	"github.com/vovakirdan/nebula-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagFeedAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Nebula SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH login is a player profile: progress, unlocks and achievements
are kept per user name. All users share the same leaderboard.

With --feed, finished games are broadcast as JSON to websocket clients
connected at ws://<addr>/feed.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.nebula/host_key

Examples:
  nebula serve                           # Listen on :23234 with auto-generated key
  nebula serve --ssh :2222               # Listen on port 2222
  nebula serve --feed :8080              # Also serve the live feed
  nebula serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "Websocket feed address (host:port); empty disables the feed")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Logger = logger.WithPrefix("nebula-ssh")

	feedErr := make(chan error, 1)
	if flagFeedAddr != "" {
		hub := feed.NewHub(logger.WithPrefix("nebula-feed"))
		cfg.Feed = hub
		go func() {
			logger.Info("starting feed server", "address", flagFeedAddr, "path", "/feed")
			feedErr <- feed.Serve(ctx, flagFeedAddr, hub)
		}()
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting Nebula SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	// A feed that fails to start takes the whole server down.
	go func() {
		if err := <-feedErr; err != nil {
			logger.Error("feed stopped", "error", err)
			stop()
		}
	}()

	if err := server.Serve(ctx); err != nil {
		fatal("server: %v", err)
	}
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
