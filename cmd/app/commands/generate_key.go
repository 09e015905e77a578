package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
)

// RunGenerateKey generates a cryptographically secure 32-byte master key for
// envelope encryption and prints the environment configuration to apply.
// Key material is zeroed from memory after encoding.
//
// When kmsProvider and kmsKeyURI are both set, the key is encrypted with KMS
// before output and MASTER_KEY holds the wrapped ciphertext. Otherwise the
// raw base64 key is printed; that mode is meant for development only.
//
// Security: never use the localsecrets provider in production. Use cloud KMS
// providers (gcpkms, awskms, azurekeyvault).
func RunGenerateKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri must be set together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	masterKey := make([]byte, cryptoDomain.MinMasterKeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsProvider == "" {
		encodedKey := base64.StdEncoding.EncodeToString(masterKey)

		_, _ = fmt.Fprintln(writer, "# Master Key Configuration (plain mode, development only)")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", encodedKey)
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, "# For production, wrap the key with a KMS provider:")
		_, _ = fmt.Fprintln(writer, "#   generate-key --kms-provider=gcpkms --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"")
		return nil
	}

	_, _ = fmt.Fprintln(writer, "# KMS Mode: Encrypting master key with KMS")
	_, _ = fmt.Fprintf(writer, "# KMS Provider: %s\n", kmsProvider)
	_, _ = fmt.Fprintln(writer)

	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
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
		return fmt.Errorf("KMS keeper does not support encryption")
	}

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(ciphertext)

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration (KMS Mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", encodedKey)

	return nil
}
