package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/svthalia/concrexit-sub001/models"
)

const (
	FieldKind             = "kind"
	FieldAPIPath          = "api_path"
	FieldPageSize         = "page_size"
	FieldFetchBeforePush  = "fetch_before_push"
	FieldLineKind         = "line_kind"
	FieldLinesKey         = "lines_key"
	FieldEntityID         = "entity_id"
	FieldEntity           = "entity_type"
	FieldAdministrationID = "administration_id"
)

type ResourceValidator struct{}

func NewResourceValidator() Validator {
	return &ResourceValidator{}
}

// Validate dispatches on the dynamic type of obj. Value and pointer forms of
// models.ResourceTypeConfig, models.DocumentLinesConfig and
// models.WebhookEvent are accepted.
func (v *ResourceValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ResourceTypeConfig:
		return v.validateTypeConfig(value, fields...)
	case *models.ResourceTypeConfig:
		return v.validateTypeConfig(*value, fields...)

	case models.DocumentLinesConfig:
		return v.validateLinesConfig(value, fields...)
	case *models.DocumentLinesConfig:
		return v.validateLinesConfig(*value, fields...)

	case models.WebhookEvent:
		return v.validateEvent(value, fields...)
	case *models.WebhookEvent:
		return v.validateEvent(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *ResourceValidator) validateTypeConfig(cfg models.ResourceTypeConfig, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKind, FieldAPIPath, FieldPageSize, FieldFetchBeforePush}
	}

	for _, field := range fields {
		switch field {
		case FieldKind:
			if strings.TrimSpace(cfg.Kind) == "" {
				return ErrEmptyKind
			}
		case FieldAPIPath:
			if cfg.APIPath == "" {
				return fmt.Errorf("%w: %s", ErrEmptyAPIPath, cfg.Kind)
			}
			if strings.HasPrefix(cfg.APIPath, "/") {
				return fmt.Errorf("%w: %q", ErrAbsoluteAPIPath, cfg.APIPath)
			}
		case FieldPageSize:
			if cfg.PageSize < 0 {
				return ErrInvalidPageSize
			}
		case FieldFetchBeforePush:
			if cfg.FetchBeforePush && !cfg.CanWrite {
				return fmt.Errorf("%w: %s", ErrFetchWithoutWrite, cfg.Kind)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func (v *ResourceValidator) validateLinesConfig(cfg models.DocumentLinesConfig, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLineKind, FieldLinesKey}
	}

	for _, field := range fields {
		switch field {
		case FieldLineKind:
			if strings.TrimSpace(cfg.LineKind) == "" {
				return ErrEmptyLineKind
			}
		case FieldLinesKey:
			if cfg.LinesKey == "" {
				return ErrEmptyLinesKey
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

// validateEvent checks only the entity id by default. Events for unknown or
// empty entity types are acknowledged elsewhere.
func (v *ResourceValidator) validateEvent(event models.WebhookEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntityID}
	}

	for _, field := range fields {
		switch field {
		case FieldEntityID:
			if event.EntityID == "" {
				return ErrEmptyEntityID
			}
		case FieldEntity:
			if event.Entity == "" {
				return ErrEmptyEntity
			}
		case FieldAdministrationID:
			if event.AdministrationID == "" {
				return ErrEmptyAdministration
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}
