package bootstrap

import "errors"

var (
	// ErrMissingInput means a schema or seed script does not exist.
	ErrMissingInput = errors.New("missing input")
	// ErrRemoveExisting means the previous database file could not be deleted.
	ErrRemoveExisting = errors.New("cannot remove existing DB")
	// ErrExecute means opening the new database or running a script failed.
	ErrExecute = errors.New("failed to create DB")
	// ErrMissingDatabase means the inspected database file does not exist.
	ErrMissingDatabase = errors.New("database missing")
)

// Process exit statuses shared by the tools.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitMissingInput   = 2
	ExitRemoveExisting = 3
	ExitExecute        = 4
	ExitMissingDB      = 2
)

// ExitCode maps an error from Initialize or Inspect to a process status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrMissingInput):
		return ExitMissingInput
	case errors.Is(err, ErrRemoveExisting):
		return ExitRemoveExisting
	case errors.Is(err, ErrExecute):
		return ExitExecute
	case errors.Is(err, ErrMissingDatabase):
		return ExitMissingDB
	default:
		return ExitFailure
	}
}
