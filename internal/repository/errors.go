package repository

import (
	"errors"
	"fmt"
)

// ErrExists is returned by Create when the target file is already present.
var ErrExists = errors.New("database file already exists")

// StorageError wraps a failed statement against the store. Op carries enough
// context (statement and the ids involved) to show which operation broke.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storagef wraps err as a *StorageError with a formatted Op.
func storagef(err error, format string, args ...any) error {
	return &StorageError{Op: fmt.Sprintf(format, args...), Err: err}
}

// SchemaError reports a file whose layout, version, or reference data does
// not match what this build expects. No automatic repair is attempted.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}
