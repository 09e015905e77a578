package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
)

// RunRotateKey generates a new master key, pairs it with the current one in a
// rotation record, and prints the operator runbook for completing the
// rotation. Nothing is persisted and the in-process key is not swapped: the
// operator runs the rewrap batch job with both keys and then restarts the
// process configured with the new key.
//
// When kmsProvider and kmsKeyURI are both set, the printed MASTER_KEY value
// is the KMS-wrapped ciphertext of the new key.
func RunRotateKey(
	ctx context.Context,
	keyManager cryptoService.KeyManager,
	kmsService cryptoService.KMSService,
	writer io.Writer,
	currentKey, kmsProvider, kmsKeyURI string,
) error {
	if currentKey == "" {
		return fmt.Errorf("MASTER_KEY is not set - cannot rotate without the current key")
	}
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf("--kms-provider and --kms-key-uri must be set together")
	}

	record, err := keyManager.RotateKeys(currentKey)
	if err != nil {
		return fmt.Errorf("failed to rotate master key: %w", err)
	}

	newKeyOut := record.NewKey
	if kmsProvider != "" {
		newKeyOut, err = wrapKeyWithKMS(ctx, kmsService, kmsKeyURI, record.NewKey, writer)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(writer, "# KMS Mode: new master key encrypted with KMS")
		_, _ = fmt.Fprintf(writer, "# KMS Provider: %s\n", kmsProvider)
		_, _ = fmt.Fprintln(writer)
	}

	_, _ = fmt.Fprintln(writer, "# Master Key Rotation")
	_, _ = fmt.Fprintf(writer, "# Rotation ID: %s\n", record.ID)
	_, _ = fmt.Fprintf(writer, "# Rotated At:  %s\n", record.RotatedAt.Format("2006-01-02T15:04:05Z07:00"))
	_, _ = fmt.Fprintln(writer)
	if kmsProvider != "" {
		_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", newKeyOut)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Rotation Workflow:")
	_, _ = fmt.Fprintln(writer, "# 1. Export the stored records that hold encrypted fields")
	_, _ = fmt.Fprintf(writer, "# 2. Re-encrypt them: app rewrap --new-key \"%s\" < records.jsonl > rewrapped.jsonl\n", record.NewKey)
	_, _ = fmt.Fprintln(writer, "# 3. Load the rewrapped records back into storage")
	_, _ = fmt.Fprintln(writer, "# 4. Update MASTER_KEY to the value above and restart the application")
	_, _ = fmt.Fprintln(writer, "# 5. Keep the old key escrowed until the rewrap output is verified")

	return nil
}

// wrapKeyWithKMS encrypts base64 key material with a KMS keeper and returns
// the base64 ciphertext.
func wrapKeyWithKMS(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	kmsKeyURI, encodedKey string,
	writer io.Writer,
) (string, error) {
	plaintext, err := decodeBase64Key(encodedKey)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeperInterface.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(writer, "Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	keeper, ok := keeperInterface.(interface {
		Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	})
	if !ok {
		return "", fmt.Errorf("KMS keeper does not support encryption")
	}

	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
