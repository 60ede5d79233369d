package subprocess

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/chatpipe/chatpipe-go/internal/errors"
)

// Discover locates the external chat CLI binary.
//
// An explicit path, when given, is used and only it. Otherwise the binary
// name is searched in PATH and then in common installation directories.
// Returns ToolNotFoundError listing the searched paths on failure.
func Discover(log *slog.Logger, explicitPath, name string) (string, error) {
	if explicitPath != "" {
		log.Debug("Using explicit tool path", "path", explicitPath)

		if _, err := os.Stat(explicitPath); err == nil {
			return explicitPath, nil
		}

		return "", &errors.ToolNotFoundError{SearchedPaths: []string{explicitPath}}
	}

	searched := make([]string, 0, 4)

	if path, err := exec.LookPath(name); err == nil {
		log.Debug("Found tool in PATH", "path", path)

		return path, nil
	}

	searched = append(searched, "$PATH")

	commonPaths := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".local/bin", name))
	}

	for _, path := range commonPaths {
		searched = append(searched, path)

		if _, err := os.Stat(path); err == nil {
			log.Debug("Found tool at common path", "path", path)

			return path, nil
		}
	}

	log.Warn("Chat CLI not found in any searched paths", "searched_paths", searched)

	return "", &errors.ToolNotFoundError{SearchedPaths: searched}
}
