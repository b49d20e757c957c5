// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"taskdeck/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown id, invalid value).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps an operation error to an exit code.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	if errors.Is(err, service.ErrNotFound) {
		return UserError
	}
	switch service.KindOf(err) {
	case service.KindAuth:
		return AuthError
	case service.KindTransport, service.KindStatus:
		return BackendError
	}
	return UserError
}
