package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/exec"

	"github.com/dgrudge/lobby/internal/services/character"
)

// ErrNotConfigured is returned when no game executable has been configured
var ErrNotConfigured = errors.New("game executable not configured")

// Launcher activates a character save and starts the game process. The game
// runs on its own; the lobby never supervises it.
type Launcher struct {
	characters *character.Manager
	gamePath   string
	logger     *slog.Logger
}

// New creates a launcher for the given game executable
func New(characters *character.Manager, gamePath string, logger *slog.Logger) *Launcher {
	return &Launcher{
		characters: characters,
		gamePath:   gamePath,
		logger:     logger.With(slog.String("component", "launch")),
	}
}

// Launch copies the character's save into the active game directory and
// starts the game executable, returning the activated save path
func (l *Launcher) Launch(ctx context.Context, userID, name string) (string, error) {
	if l.gamePath == "" {
		return "", ErrNotConfigured
	}

	savePath, err := l.characters.Activate(ctx, userID, name)
	if err != nil {
		return "", err
	}

	cmd := exec.Command(l.gamePath)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting game: %w", err)
	}
	pid := cmd.Process.Pid
	go func() {
		// Reap the child; exit status is the game's business, not ours.
		_ = cmd.Wait()
	}()

	l.logger.Info("game launched",
		slog.String("user_id", userID),
		slog.String("character", name),
		slog.Int("pid", pid))
	return savePath, nil
}

// Adapter describes one network interface for the status helper
type Adapter struct {
	Name     string   `json:"name"`
	Up       bool     `json:"up"`
	Loopback bool     `json:"loopback"`
	Addrs    []string `json:"addrs"`
}

// AdapterStatus enumerates the host's network interfaces
func AdapterStatus() ([]Adapter, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}
	adapters := make([]Adapter, 0, len(ifaces))
	for _, iface := range ifaces {
		adapter := Adapter{
			Name:     iface.Name,
			Up:       iface.Flags&net.FlagUp != 0,
			Loopback: iface.Flags&net.FlagLoopback != 0,
		}
		if addrs, err := iface.Addrs(); err == nil {
			for _, addr := range addrs {
				adapter.Addrs = append(adapter.Addrs, addr.String())
			}
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
