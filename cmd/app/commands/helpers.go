// Package commands contains CLI command implementations for the application.
package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/jellydator/validation"

	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
	appvalidation "github.com/allisson/phicrypt/internal/validation"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// decodeBase64Key decodes key material that may use either standard or
// URL-safe base64 alphabets.
func decodeBase64Key(encoded string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(encoded); err == nil {
		return decoded, nil
	}
	decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("key is not valid base64: %w", err)
	}
	return decoded, nil
}

// ParseMasterKey validates and decodes base64 master key material supplied
// on the command line. The encoded form must be non-blank base64 without
// surrounding whitespace, and the decoded bytes must pass the key strength
// heuristics.
func ParseMasterKey(encoded string) ([]byte, error) {
	err := validation.Validate(encoded,
		validation.Required,
		appvalidation.NoWhitespace,
		appvalidation.Base64,
	)
	if err != nil {
		return nil, appvalidation.WrapValidationError(err)
	}

	key, err := decodeBase64Key(encoded)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(key, appvalidation.KeyStrength); err != nil {
		return nil, appvalidation.WrapValidationError(err)
	}

	return key, nil
}

// readRecordInput reads a JSON document from filePath when set, otherwise
// from reader, and returns the contained records. A top-level array yields
// its elements in order; a top-level object yields a single record. isArray
// reports which shape was read so the output can mirror it.
func readRecordInput(reader io.Reader, filePath string) (records []recordsDomain.Record, isArray bool, err error) {
	var data []byte
	if filePath != "" {
		data, err = os.ReadFile(filePath)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read input file: %w", err)
		}
	} else {
		data, err = io.ReadAll(reader)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read input: %w", err)
		}
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, false, fmt.Errorf("input is empty")
	}

	if strings.HasPrefix(trimmed, "[") {
		var recs []recordsDomain.Record
		if err := json.Unmarshal([]byte(trimmed), &recs); err != nil {
			return nil, false, fmt.Errorf("failed to parse record array: %w", err)
		}
		return recs, true, nil
	}

	var rec recordsDomain.Record
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return nil, false, fmt.Errorf("failed to parse record: %w", err)
	}
	return []recordsDomain.Record{rec}, false, nil
}

// writeRecordOutput writes records as indented JSON, mirroring the input
// shape: a single object when isArray is false, an array otherwise.
func writeRecordOutput(writer io.Writer, records []recordsDomain.Record, isArray bool) error {
	var out any = records
	if !isArray {
		out = records[0]
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(writer, string(encoded))
	return err
}
