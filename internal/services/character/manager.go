package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dgrudge/lobby/internal/dependencies/clock"
	"github.com/dgrudge/lobby/internal/model"
)

const (
	metadataFile  = "characters.json"
	saveExtension = ".d2s"
	maxNameLength = 15
)

var nameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Manager is the per-user character registry. Each user gets a directory
// under the base save path holding one binary save per character plus a
// characters.json metadata map.
type Manager struct {
	baseDir   string // per-user character storage
	activeDir string // save directory the game itself reads from
	clock     clock.Clock
	logger    *slog.Logger
}

// NewManager creates a character manager rooted at the given directories
func NewManager(baseDir, activeDir string, clock clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		baseDir:   baseDir,
		activeDir: activeDir,
		clock:     clock,
		logger:    logger.With(slog.String("component", "characters")),
	}
}

// sanitizeName strips everything outside [A-Za-z0-9_-] and truncates.
// Applied to user ids and character names before they touch the filesystem.
func sanitizeName(name string) string {
	safe := nameSanitizer.ReplaceAllString(name, "")
	if len(safe) > maxNameLength {
		safe = safe[:maxNameLength]
	}
	return safe
}

func (m *Manager) userDir(userID string) string {
	return filepath.Join(m.baseDir, "user_"+sanitizeName(userID))
}

func (m *Manager) savePath(userID, name string) string {
	return filepath.Join(m.userDir(userID), name+saveExtension)
}

// InitializeUser ensures the user's save directory and metadata file exist,
// returning the directory path
func (m *Manager) InitializeUser(ctx context.Context, userID string) (string, error) {
	dir := m.userDir(userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating user save dir: %w", err)
	}
	metaPath := filepath.Join(dir, metadataFile)
	if _, err := os.Stat(metaPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(metaPath, []byte("{}"), 0o644); err != nil {
			return "", fmt.Errorf("creating metadata file: %w", err)
		}
	}
	return dir, nil
}

// List returns the user's character metadata, keyed by character name.
// A user with no save directory has no characters.
func (m *Manager) List(ctx context.Context, userID string) (map[string]model.CharacterMeta, error) {
	data, err := os.ReadFile(filepath.Join(m.userDir(userID), metadataFile))
	if err != nil {
		return map[string]model.CharacterMeta{}, nil
	}
	var metadata map[string]model.CharacterMeta
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return metadata, nil
}

func (m *Manager) writeMetadata(userID string, metadata map[string]model.CharacterMeta) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.userDir(userID), metadataFile), data, 0o644)
}

// Create makes a new character: a fresh level-1 binary save plus a metadata
// entry. Names are sanitized; duplicates and unknown classes are rejected.
func (m *Manager) Create(ctx context.Context, userID, name string, class model.CharacterClass, hardcore bool) (*model.Character, error) {
	safeName := sanitizeName(name)
	if safeName == "" {
		return nil, model.ErrInvalidCharacterName
	}
	if !class.Valid() {
		return nil, model.ErrUnknownClass
	}

	if _, err := m.InitializeUser(ctx, userID); err != nil {
		return nil, err
	}

	savePath := m.savePath(userID, safeName)
	if _, err := os.Stat(savePath); err == nil {
		return nil, model.ErrCharacterExists
	}

	if err := os.WriteFile(savePath, encodeSaveFile(safeName, class, hardcore), 0o644); err != nil {
		return nil, fmt.Errorf("writing save file: %w", err)
	}

	now := m.clock.Now()
	meta := model.CharacterMeta{
		Class:      class,
		Level:      1,
		Hardcore:   hardcore,
		Created:    now,
		LastPlayed: now,
		Icon:       class.Icon(),
	}

	metadata, err := m.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	metadata[safeName] = meta
	if err := m.writeMetadata(userID, metadata); err != nil {
		return nil, err
	}

	m.logger.Info("character created",
		slog.String("user_id", userID),
		slog.String("name", safeName),
		slog.String("class", string(class)),
		slog.Bool("hardcore", hardcore))
	return &model.Character{Name: safeName, CharacterMeta: meta}, nil
}

// Delete removes a character's save file and metadata entry
func (m *Manager) Delete(ctx context.Context, userID, name string) error {
	safeName := sanitizeName(name)
	if err := os.Remove(m.savePath(userID, safeName)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.ErrCharacterNotFound
		}
		return fmt.Errorf("removing save file: %w", err)
	}

	metadata, err := m.List(ctx, userID)
	if err != nil {
		return err
	}
	delete(metadata, safeName)
	if err := m.writeMetadata(userID, metadata); err != nil {
		return err
	}

	m.logger.Info("character deleted", slog.String("user_id", userID), slog.String("name", safeName))
	return nil
}

// Activate copies a character's save into the active game directory so the
// game picks it up, bumps lastPlayed, and returns the destination path
func (m *Manager) Activate(ctx context.Context, userID, name string) (string, error) {
	safeName := sanitizeName(name)
	src := m.savePath(userID, safeName)

	if err := os.MkdirAll(m.activeDir, 0o755); err != nil {
		return "", fmt.Errorf("creating active save dir: %w", err)
	}

	dst := filepath.Join(m.activeDir, safeName+saveExtension)
	if err := copyFile(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", model.ErrCharacterNotFound
		}
		return "", fmt.Errorf("activating character: %w", err)
	}

	if err := m.touchLastPlayed(ctx, userID, safeName); err != nil {
		return "", err
	}

	m.logger.Info("character activated",
		slog.String("user_id", userID),
		slog.String("name", safeName),
		slog.String("path", dst))
	return dst, nil
}

// SyncBack copies a character's save from the active game directory back
// into the user's registry after play
func (m *Manager) SyncBack(ctx context.Context, userID, name string) error {
	safeName := sanitizeName(name)
	src := filepath.Join(m.activeDir, safeName+saveExtension)
	dst := m.savePath(userID, safeName)

	if err := copyFile(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.ErrCharacterNotFound
		}
		return fmt.Errorf("syncing character back: %w", err)
	}

	if err := m.touchLastPlayed(ctx, userID, safeName); err != nil {
		return err
	}

	m.logger.Info("character synced back", slog.String("user_id", userID), slog.String("name", safeName))
	return nil
}

func (m *Manager) touchLastPlayed(ctx context.Context, userID, name string) error {
	metadata, err := m.List(ctx, userID)
	if err != nil {
		return err
	}
	meta, ok := metadata[name]
	if !ok {
		return nil
	}
	meta.LastPlayed = m.clock.Now()
	metadata[name] = meta
	return m.writeMetadata(userID, metadata)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
