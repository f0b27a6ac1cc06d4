package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/answerscope/internal/pipeline"
)

// writeJSONReport writes the full scan result as pretty-printed JSON. Path
// "-" (or empty) writes to stdout.
func writeJSONReport(path string, res pipeline.Result) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scan result: %w", err)
	}
	b = append(b, '\n')

	if path == "" || path == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info().Str("path", path).Msg("wrote JSON report")
	return nil
}
