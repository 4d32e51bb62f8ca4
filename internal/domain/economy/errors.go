package economy

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidInventory      = errors.New("invalid inventory")
	ErrInvalidResource       = errors.New("invalid resource")
	ErrSamePlanet            = errors.New("source and destination planet must differ")
)

type InsufficientResourcesError struct {
	Key       InventoryKey
	Requested float64
	Available float64
}

func (e *InsufficientResourcesError) Error() string {
	return fmt.Sprintf("%s: planet %d resource %d has %.2f, requested %.2f",
		ErrInsufficientResources.Error(), e.Key.PlanetID, e.Key.ResourceID, e.Available, e.Requested)
}

func (e *InsufficientResourcesError) Unwrap() error {
	return ErrInsufficientResources
}
