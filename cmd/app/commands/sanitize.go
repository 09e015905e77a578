package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/allisson/phicrypt/internal/redact"
)

// RunSanitize reads a JSON document from filePath or from the reader,
// replaces sensitive values with the redaction placeholder, and writes the
// scrubbed document as indented JSON. Useful for preparing records or log
// payloads for sharing outside the trust boundary.
func RunSanitize(io IOTuple, filePath string) error {
	reader := io.Reader
	if filePath != "" {
		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer func() { _ = file.Close() }()
		reader = file
	}

	var doc map[string]any
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse JSON document: %w", err)
	}

	sanitized := redact.SanitizeForLogging(doc)

	encoded, err := json.MarshalIndent(sanitized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(io.Writer, string(encoded))
	return err
}
