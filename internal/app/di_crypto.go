package app

import (
	"context"
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/phicrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/phicrypt/internal/crypto/service"
)

// cryptoComponents groups the crypto-context dependencies held by the
// container.
type cryptoComponents struct {
	masterKey    *cryptoDomain.MasterKey
	kmsKeeper    cryptoDomain.KMSKeeper
	kmsService   cryptoService.KMSService
	aeadManager  cryptoService.AEADManager
	encryptor    cryptoService.Encryptor
	hashService  cryptoService.Hasher
	tokenService cryptoService.TokenGenerator
	keyManager   cryptoService.KeyManager

	masterKeyInit    sync.Once
	kmsServiceInit   sync.Once
	aeadManagerInit  sync.Once
	encryptorInit    sync.Once
	hashServiceInit  sync.Once
	tokenServiceInit sync.Once
	keyManagerInit   sync.Once
}

// MasterKey returns the master key loaded from the environment, unwrapped via
// KMS when the configuration asks for it. Loading fails fast on a missing,
// malformed, or weak key.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.crypto.masterKeyInit.Do(func() {
		c.crypto.masterKey, err = c.initMasterKey()
		if err != nil {
			c.storeInitError("masterKey", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("masterKey"); storedErr != nil {
		return nil, storedErr
	}
	return c.crypto.masterKey, nil
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.crypto.kmsServiceInit.Do(func() {
		c.crypto.kmsService = cryptoService.NewKMSService()
	})
	return c.crypto.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.crypto.aeadManagerInit.Do(func() {
		c.crypto.aeadManager = cryptoService.NewAEADManager()
	})
	return c.crypto.aeadManager
}

// Encryptor returns the envelope encryptor configured with the master key,
// algorithm, and KDF iteration count.
func (c *Container) Encryptor() (cryptoService.Encryptor, error) {
	var err error
	c.crypto.encryptorInit.Do(func() {
		c.crypto.encryptor, err = c.initEncryptor()
		if err != nil {
			c.storeInitError("encryptor", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("encryptor"); storedErr != nil {
		return nil, storedErr
	}
	return c.crypto.encryptor, nil
}

// HashService returns the credential hashing service.
func (c *Container) HashService() (cryptoService.Hasher, error) {
	var err error
	c.crypto.hashServiceInit.Do(func() {
		c.crypto.hashService, err = cryptoService.NewHashService(c.config.HashPolicy)
		if err != nil {
			err = fmt.Errorf("failed to create hash service: %w", err)
			c.storeInitError("hashService", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("hashService"); storedErr != nil {
		return nil, storedErr
	}
	return c.crypto.hashService, nil
}

// TokenService returns the secure token generator.
func (c *Container) TokenService() cryptoService.TokenGenerator {
	c.crypto.tokenServiceInit.Do(func() {
		c.crypto.tokenService = cryptoService.NewTokenService()
	})
	return c.crypto.tokenService
}

// KeyManager returns the key lifecycle manager.
func (c *Container) KeyManager() cryptoService.KeyManager {
	c.crypto.keyManagerInit.Do(func() {
		c.crypto.keyManager = cryptoService.NewKeyManager(c.TokenService())
	})
	return c.crypto.keyManager
}

// initMasterKey loads the master key, opening a KMS keeper first when the
// configuration names a provider.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	ctx := context.Background()

	var keeper cryptoDomain.KMSKeeper
	if c.config.KMSProvider != "" && c.config.KMSKeyURI != "" {
		var err error
		keeper, err = c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open kms keeper: %w", err)
		}
		// Kept for Close during container shutdown.
		c.crypto.kmsKeeper = keeper
	}

	masterKey, err := cryptoDomain.LoadMasterKeyFromEnv(ctx, keeper)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}
	return masterKey, nil
}

// initEncryptor creates the envelope encryptor with all its dependencies.
func (c *Container) initEncryptor() (cryptoService.Encryptor, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for encryptor: %w", err)
	}

	encryptor, err := cryptoService.NewEncryptor(
		masterKey,
		cryptoDomain.Algorithm(c.config.EncryptionAlgorithm),
		c.config.KDFIterations,
		c.AEADManager(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}
	return encryptor, nil
}
