package core

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Error kinds shared by scanning and deletion.
var (
	ErrPermissionDenied = fmt.Errorf("permission denied")
	ErrNotFound         = fmt.Errorf("target not found")
	ErrSafetyRevoked    = fmt.Errorf("safety check revoked")
	ErrPartialScan      = fmt.Errorf("partial scan")
	ErrIO               = fmt.Errorf("i/o error")
	ErrNoScanRoots      = fmt.Errorf("no scan location could be read")
)

// Reason strings reported to the operator for failed deletions.
const (
	ReasonPermissionDenied = "permission_denied"
	ReasonNotFound         = "not_found"
	ReasonSafetyRevoked    = "safety_revoked"
	ReasonIOError          = "io_error"
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// FromOS maps an operating-system error on path to one of the error kinds
// above. The underlying error stays reachable through errors.Is / errors.As.
func FromOS(path string, err error) error {
	if err == nil {
		return nil
	}
	var kind error
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrSafetyRevoked), errors.Is(err, ErrIO):
		return err
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EPERM):
		kind = ErrPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	default:
		kind = ErrIO
	}
	return fmt.Errorf("%w: %s: %w", kind, path, err)
}

// ReasonOf returns the operator-facing reason for a deletion error.
// Unknown errors are reported as io_error.
func ReasonOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSafetyRevoked):
		return ReasonSafetyRevoked
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		return ReasonPermissionDenied
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ReasonNotFound
	default:
		return ReasonIOError
	}
}
