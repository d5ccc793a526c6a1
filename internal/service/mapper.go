package service

import (
	"fmt"

	"github.com/svthalia/concrexit-sub001/models"
)

// Mapper moves mirrored fields between remote payloads and local records.
type Mapper interface {
	// Apply writes the fields of a remote payload into res.Data.
	Apply(res *models.Resource, p models.Payload) error

	// Serialize returns the request body fields of res.
	Serialize(res *models.Resource) (models.Payload, error)
}

// StructMapper is a [Mapper] that passes payloads through the typed entity T,
// so only the fields T declares are mirrored and pushed.
type StructMapper[T any] struct{}

// Apply implements [Mapper].
func (StructMapper[T]) Apply(res *models.Resource, p models.Payload) error {
	var v T
	if err := p.Decode(&v); err != nil {
		return fmt.Errorf("apply %s payload: %w", res.Kind, err)
	}

	data, err := models.EncodePayload(v)
	if err != nil {
		return fmt.Errorf("apply %s payload: %w", res.Kind, err)
	}
	res.Data = data
	return nil
}

// Serialize implements [Mapper].
func (StructMapper[T]) Serialize(res *models.Resource) (models.Payload, error) {
	var v T
	if err := res.Data.Decode(&v); err != nil {
		return nil, fmt.Errorf("serialize %s: %w", res.Kind, err)
	}
	return models.EncodePayload(v)
}
