package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrResourceNotFound is returned when a lookup or a delete by local id
	// matches no record.
	ErrResourceNotFound = errors.New("resource was not found")

	// ErrRemoteIDConflict is returned by Save when another local row of the
	// same base kind already claims the record's remote id.
	ErrRemoteIDConflict = errors.New("remote id is already claimed by another resource")

	// ErrUnknownDriver is returned by NewStorages for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan resource rows")

	// ErrEncodingData is returned when a record's mirrored fields cannot be
	// stored or read back as JSON.
	ErrEncodingData = errors.New("failed to encode resource data")
)
