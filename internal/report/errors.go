package report

import "fmt"

// ValidationError rejects malformed generation parameters before any
// repository call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RepositoryError wraps a collaborator failure. It is fatal for the
// whole statement: no partial result is ever returned around one.
type RepositoryError struct {
	Op  string
	Err error
}

func (e RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e RepositoryError) Unwrap() error { return e.Err }
