package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// Config holds CLI settings resolved from flags and environment
type Config struct {
	ServerURL string
	AdminKey  string
	Output    string
}

// DefaultConfig returns CLI defaults, honoring GRUDGE_* environment variables
func DefaultConfig() *Config {
	c := &Config{
		ServerURL: "http://localhost:3000",
		Output:    "text",
	}
	if v := os.Getenv("GRUDGE_SERVER"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("GRUDGE_ADMIN_KEY"); v != "" {
		c.AdminKey = v
	}
	return c
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "lobbyctl",
		Short: "Operator CLI for the grudge lobby server",
		Long: `lobbyctl talks to a running lobby server.

Read-only queries (health, games) use the HTTP surface; the privileged
stats, kick, and ban operations go over the lobby's websocket protocol
and require the shared admin key.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client = NewClient(cfg.ServerURL)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: GRUDGE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.AdminKey, "admin-key", cfg.AdminKey, "Admin key for privileged operations (env: GRUDGE_ADMIN_KEY)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newKickCmd())
	rootCmd.AddCommand(newBanCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
