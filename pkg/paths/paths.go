package paths

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/packorder/pkg/config"
	"github.com/arthur-debert/packorder/pkg/errors"
)

// Default directories and files inside the game directory
const (
	// DefaultGameDirName is the game directory under the home directory
	DefaultGameDirName = ".minecraft"

	// PacksDirName is the resource packs directory inside the game directory
	PacksDirName = "resourcepacks"

	// OptionsFileName is the game's options document
	OptionsFileName = "options.txt"
)

// Paths provides the locations the manager reads and writes
type Paths interface {
	GameDir() string
	PacksDir() string
	OptionsFile() string
	PackPath(id string) string
}

type paths struct {
	gameDir     string
	packsDir    string
	optionsFile string
}

// New resolves paths from configuration
func New(cfg *config.Config) (Paths, error) {
	gameDir := cfg.Game.Dir
	if gameDir == "" {
		gameDir = filepath.Join(xdg.Home, DefaultGameDirName)
	}
	gameDir, err := absolute(gameDir)
	if err != nil {
		return nil, err
	}

	p := &paths{
		gameDir:     gameDir,
		packsDir:    filepath.Join(gameDir, PacksDirName),
		optionsFile: filepath.Join(gameDir, OptionsFileName),
	}

	if cfg.Packs.Dir != "" {
		if p.packsDir, err = absolute(cfg.Packs.Dir); err != nil {
			return nil, err
		}
	}
	if cfg.Options.File != "" {
		if p.optionsFile, err = absolute(cfg.Options.File); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *paths) GameDir() string     { return p.gameDir }
func (p *paths) PacksDir() string    { return p.packsDir }
func (p *paths) OptionsFile() string { return p.optionsFile }

// PackPath returns the location of a pack inside the packs directory
func (p *paths) PackPath(id string) string {
	return filepath.Join(p.packsDir, id)
}

func absolute(path string) (string, error) {
	path = expandHome(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}
	return abs, nil
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}
