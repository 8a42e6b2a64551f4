package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgrudge/lobby/internal/model"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireAdminKey() error {
	if cfg.AdminKey == "" {
		return errors.New("admin key required: pass --admin-key or set GRUDGE_ADMIN_KEY")
	}
	return nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.Output == "json" {
				return printJSON(health)
			}
			fmt.Printf("status: %s\nplayers: %d\ngames: %d\n", health.Status, health.Players, health.Games)
			return nil
		},
	}
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List open games",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := client.Games(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.Output == "json" {
				return printJSON(games)
			}
			if len(games) == 0 {
				fmt.Println("no games")
				return nil
			}
			for _, g := range games {
				locked := ""
				if g.HasPassword {
					locked = " [password]"
				}
				fmt.Printf("%s  %s  %d/%d  %s%s\n", g.ID, g.Name, g.Players, g.MaxPlayers, g.Status, locked)
			}
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show privileged server counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdminKey(); err != nil {
				return err
			}
			stats, err := client.AdminStats(cmd.Context(), cfg.AdminKey)
			if err != nil {
				return err
			}
			if cfg.Output == "json" {
				return printJSON(stats)
			}
			fmt.Printf("players: %d\ngames: %d\nbanned addresses: %d\nuptime: %.0fs\n",
				stats.Players, stats.Games, stats.BannedIPs, stats.Uptime)
			return nil
		},
	}
}

func newKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <player-id>",
		Short: "Forcibly disconnect a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdminKey(); err != nil {
				return err
			}
			if err := client.AdminKick(cmd.Context(), cfg.AdminKey, model.PlayerID(args[0])); err != nil {
				return err
			}
			fmt.Println("kick sent")
			return nil
		},
	}
}

func newBanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ban <player-id>",
		Short: "Ban a player's address and disconnect it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdminKey(); err != nil {
				return err
			}
			if err := client.AdminBan(cmd.Context(), cfg.AdminKey, model.PlayerID(args[0])); err != nil {
				return err
			}
			fmt.Println("ban sent")
			return nil
		},
	}
}
