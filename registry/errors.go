package registry

import (
	"errors"

	"primer-registry/archive"
	"primer-registry/orm"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Static errors to avoid err113 violations
var (
	ErrArchiveUnavailable = errors.New("primer set archive is not configured")
	ErrCorruptPrimerSet   = errors.New("primer set content does not match its version hash")
)

// ServiceError represents public-facing errors from the registry service
type ServiceError struct {
	Code    codes.Code
	Message string
	Inner   error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Inner
}

func (e *ServiceError) GRPCStatus() *status.Status {
	return status.New(e.Code, e.Message)
}

// wrapServiceError converts internal errors to user-friendly service errors
func wrapServiceError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return err
	}

	var notFoundErr *orm.NotFoundError
	if errors.As(err, &notFoundErr) || errors.Is(err, archive.ErrPrimerSetNotFound) {
		return &ServiceError{
			Code:    codes.NotFound,
			Message: "Not found for " + operation,
			Inner:   err,
		}
	}

	var constraintErr *orm.ConstraintViolationError
	if errors.As(err, &constraintErr) {
		return &ServiceError{
			Code:    codes.FailedPrecondition,
			Message: "Constraint violated during " + operation,
			Inner:   err,
		}
	}

	var conflictErr *orm.ConflictError
	if errors.As(err, &conflictErr) {
		return &ServiceError{
			Code:    codes.AlreadyExists,
			Message: "Already exists for " + operation,
			Inner:   err,
		}
	}

	var badInputErr *orm.BadInputError
	if errors.As(err, &badInputErr) {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: badInputErr.Reason,
			Inner:   err,
		}
	}

	var storageErr *orm.StorageUnavailableError
	if errors.As(err, &storageErr) {
		return &ServiceError{
			Code:    codes.Unavailable,
			Message: "Storage unavailable for " + operation,
			Inner:   err,
		}
	}

	if errors.Is(err, ErrMalformedPrimerFile) {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: err.Error(),
			Inner:   err,
		}
	}

	if errors.Is(err, ErrCorruptPrimerSet) {
		return &ServiceError{
			Code:    codes.DataLoss,
			Message: "Corrupt primer set for " + operation,
			Inner:   err,
		}
	}

	return &ServiceError{
		Code:    codes.Internal,
		Message: "Internal server error during " + operation,
		Inner:   err,
	}
}

// Code returns the classification of err, codes.OK for nil and codes.Unknown
// for errors that did not pass through the service.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}

	return codes.Unknown
}

func newArchiveUnavailableError(operation string) error {
	return &ServiceError{
		Code:    codes.Unavailable,
		Message: "Primer set archive unavailable for " + operation,
		Inner:   ErrArchiveUnavailable,
	}
}
