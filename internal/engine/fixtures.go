package engine

import (
	"os"
	"strings"

	logger "github.com/rs/zerolog/log"

	"sltrun/internal/config"
	"sltrun/internal/domain"
)

// checkFixtures returns ErrSkipFile when a file needs fixture data that is
// not present on disk
func checkFixtures(cfg *config.Config, file domain.TestFile) error {
	for prefix, required := range cfg.RequiredFixtures {
		if !strings.HasPrefix(file.RelativePath, prefix) {
			continue
		}
		if _, err := os.Stat(cfg.ResolvePath(required)); err != nil {
			logger.Info().
				Str("file", file.DisplayName()).
				Str("fixture", required).
				Msg("required fixture missing")
			return ErrSkipFile
		}
	}
	return nil
}
