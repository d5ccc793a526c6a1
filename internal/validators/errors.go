package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyKind           = errors.New("kind is required")
	ErrEmptyAPIPath        = errors.New("api path is required")
	ErrAbsoluteAPIPath     = errors.New("api path must be relative")
	ErrInvalidPageSize     = errors.New("page size cannot be negative")
	ErrFetchWithoutWrite   = errors.New("fetch before push requires a writable type")
	ErrEmptyLineKind       = errors.New("line kind is required")
	ErrEmptyLinesKey       = errors.New("lines key is required")
	ErrEmptyEntityID       = errors.New("entity id is required")
	ErrEmptyEntity         = errors.New("entity type is required")
	ErrEmptyAdministration = errors.New("administration id is required")
)
