package shared

import (
	"errors"
	"fmt"
)

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// cli errors
const (
	ErrorCreateFile = Error("could not create the file")
	ErrorEncodeFile = Error("could not encode to file")
)

// repository errors
const (
	ErrNotFound    = Error("record not found")
	ErrSchemaDrift = Error("persisted row does not match schema width")
	ErrOutdated    = Error("database schema is outdated")
)

// StorageError reports a failure of the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorage returns nil for a nil err, otherwise a *StorageError.
// Errors that already carry a domain meaning pass through untouched.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrSchemaDrift) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// SchemaDriftError reports a persisted row whose field count differs
// from the schema it is read with. Line is 1-based and counts the header.
type SchemaDriftError struct {
	Line  int
	Width int
	Want  int
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("line %d has %d fields, want %d", e.Line, e.Width, e.Want)
}

func (e *SchemaDriftError) Is(target error) bool { return target == ErrSchemaDrift }
