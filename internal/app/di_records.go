package app

import (
	"fmt"
	"sync"

	recordsDomain "github.com/allisson/phicrypt/internal/records/domain"
	recordsService "github.com/allisson/phicrypt/internal/records/service"
	recordsUsecase "github.com/allisson/phicrypt/internal/records/usecase"
)

// recordsComponents groups the records-context dependencies held by the
// container.
type recordsComponents struct {
	policyRegistry *recordsDomain.PolicyRegistry
	fieldCodec     *recordsService.FieldCodecService
	recordUseCase  recordsUsecase.RecordUseCase

	policyRegistryInit sync.Once
	fieldCodecInit     sync.Once
	recordUseCaseInit  sync.Once
}

// PolicyRegistry returns the field policy registry.
func (c *Container) PolicyRegistry() *recordsDomain.PolicyRegistry {
	c.records.policyRegistryInit.Do(func() {
		c.records.policyRegistry = recordsDomain.DefaultPolicyRegistry()
	})
	return c.records.policyRegistry
}

// FieldCodec returns the field envelope codec.
func (c *Container) FieldCodec() (*recordsService.FieldCodecService, error) {
	var err error
	c.records.fieldCodecInit.Do(func() {
		c.records.fieldCodec, err = c.initFieldCodec()
		if err != nil {
			c.storeInitError("fieldCodec", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("fieldCodec"); storedErr != nil {
		return nil, storedErr
	}
	return c.records.fieldCodec, nil
}

// RecordUseCase returns the record use case, decorated with metrics recording.
func (c *Container) RecordUseCase() (recordsUsecase.RecordUseCase, error) {
	var err error
	c.records.recordUseCaseInit.Do(func() {
		c.records.recordUseCase, err = c.initRecordUseCase()
		if err != nil {
			c.storeInitError("recordUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("recordUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.records.recordUseCase, nil
}

// initFieldCodec creates the field codec with all its dependencies.
func (c *Container) initFieldCodec() (*recordsService.FieldCodecService, error) {
	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for field codec: %w", err)
	}

	return recordsService.NewFieldCodec(
		encryptor,
		c.PolicyRegistry(),
		c.Logger(),
		c.config.RewrapWorkers,
	), nil
}

// initRecordUseCase creates the record use case with all its dependencies.
func (c *Container) initRecordUseCase() (recordsUsecase.RecordUseCase, error) {
	codec, err := c.FieldCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get field codec for record use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for record use case: %w", err)
	}

	useCase := recordsUsecase.NewRecordUseCase(codec, c.PolicyRegistry(), c.Logger())
	return recordsUsecase.NewRecordUseCaseWithMetrics(useCase, businessMetrics), nil
}
