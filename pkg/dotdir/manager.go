// Package dotdir manages the .clausehound/ and ~/.clausehound directories.
//
// The directory holds the config file, cached index blobs and evaluation
// output for a working tree. A local .clausehound/ takes precedence over the
// home directory one so per-contract workspaces stay self-contained.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the clausehound directory.
	dirName = ".clausehound"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .clausehound/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.clausehound/ dir
//  3. Home ~/.clausehound/ dir
//  4. If none found, attempt to create ~/.clausehound/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating clausehound directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDirExists checks whether a .clausehound/ directory exists in the
// current working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
