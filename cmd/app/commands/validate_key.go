package commands

import (
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
)

// RunValidateKey decodes a base64 master key and checks it against the
// strength thresholds. A failed check returns an error so the command exits
// non-zero, making it usable as a deployment preflight.
//
// The key value itself is never printed.
func RunValidateKey(keyManager cryptoService.KeyManager, writer io.Writer, encodedKey string) error {
	if encodedKey == "" {
		return fmt.Errorf("no key provided: pass --key or set MASTER_KEY")
	}

	key, err := decodeBase64Key(encodedKey)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(key)

	report := keyManager.ValidateKeyStrength(key)
	if !report.Valid {
		return fmt.Errorf("master key failed strength validation: %s", report.Reason)
	}

	_, _ = fmt.Fprintf(writer, "master key is valid (%d bytes)\n", len(key))
	return nil
}
