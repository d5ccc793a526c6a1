package service

import (
	"context"
	"fmt"

	"github.com/svthalia/concrexit-sub001/internal/validators"
)

// Registry holds the resource types in registration order and resolves them
// by local kind and by remote entity name.
type Registry struct {
	validator validators.Validator

	types    []ResourceType
	byKind   map[string]ResourceType
	byEntity map[string]ResourceType
}

// NewRegistry returns a registry holding types, registered in order.
func NewRegistry(types ...ResourceType) (*Registry, error) {
	r := &Registry{
		validator: validators.NewResourceValidator(),
		byKind:    make(map[string]ResourceType),
		byEntity:  make(map[string]ResourceType),
	}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t. The kind, the line kind of documents and the entity name
// must not be registered yet.
func (r *Registry) Register(t ResourceType) error {
	cfg := t.Config()
	if err := r.validator.Validate(context.Background(), cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResourceType, err)
	}

	kinds := []string{cfg.Kind}
	if doc, ok := t.(DocumentType); ok {
		if err := r.validator.Validate(context.Background(), doc.LinesConfig()); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidResourceType, err)
		}
		kinds = append(kinds, doc.LineKind())
	}
	for _, kind := range kinds {
		if _, ok := r.byKind[kind]; ok {
			return fmt.Errorf("%w: kind %q", ErrDuplicateResourceType, kind)
		}
	}
	if cfg.EntityName != "" {
		if _, ok := r.byEntity[cfg.EntityName]; ok {
			return fmt.Errorf("%w: entity %q", ErrDuplicateResourceType, cfg.EntityName)
		}
		r.byEntity[cfg.EntityName] = t
	}

	for _, kind := range kinds {
		r.byKind[kind] = t
	}
	r.types = append(r.types, t)
	return nil
}

// ByKind returns the type registered for kind. Line kinds resolve to their
// document type.
func (r *Registry) ByKind(kind string) (ResourceType, error) {
	t, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return t, nil
}

// ByEntity returns the type registered for a remote entity name.
func (r *Registry) ByEntity(entity string) (ResourceType, error) {
	t, ok := r.byEntity[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	return t, nil
}

// All returns the registered types in registration order.
func (r *Registry) All() []ResourceType {
	out := make([]ResourceType, len(r.types))
	copy(out, r.types)
	return out
}
