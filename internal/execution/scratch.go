package execution

import (
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/rs/zerolog/log"
)

// testDirPlaceholder in SQL text is replaced by the file's scratch directory
const testDirPlaceholder = "__TEST_DIR__"

// setupScratch wipes and recreates the scratch directory of one file and
// returns its absolute path
func setupScratch(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve scratch dir %s: %w", dir, err)
	}
	if err := os.RemoveAll(abs); err != nil {
		return "", fmt.Errorf("clear scratch dir %s: %w", abs, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("create scratch dir %s: %w", abs, err)
	}
	logger.Info().Str("dir", abs).Msg("scratch directory ready")
	return abs, nil
}
