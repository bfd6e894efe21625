package gio

import (
	"context"
	"errors"
	"io/fs"

	"github.com/desertwitch/gogio/internal/gerror"
	"golang.org/x/sys/unix"
)

// IOErrorQuark is the error domain of all IO errors.
const IOErrorQuark gerror.Quark = "g-io-error-quark"

// IOErrorEnum are the codes of the [IOErrorQuark] domain.
type IOErrorEnum int

const (
	IOErrorFailed IOErrorEnum = iota
	IOErrorNotFound
	IOErrorExists
	IOErrorIsDirectory
	IOErrorNotDirectory
	IOErrorNotEmpty
	IOErrorNotRegularFile
	IOErrorNotSymbolicLink
	IOErrorNotMountableFile
	IOErrorFilenameTooLong
	IOErrorInvalidFilename
	IOErrorTooManyLinks
	IOErrorNoSpace
	IOErrorInvalidArgument
	IOErrorPermissionDenied
	IOErrorNotSupported
	IOErrorNotMounted
	IOErrorAlreadyMounted
	IOErrorClosed
	IOErrorCancelled
	IOErrorPending
	IOErrorReadOnly
	IOErrorCantCreateBackup
	IOErrorWrongETag
	IOErrorTimedOut
	IOErrorWouldRecurse
	IOErrorBusy
	IOErrorWouldBlock
	IOErrorHostNotFound
	IOErrorWouldMerge
	IOErrorFailedHandled
	IOErrorTooManyOpenFiles
)

// NewIOError returns a new error of the [IOErrorQuark] domain.
func NewIOError(code IOErrorEnum, format string, args ...any) *gerror.Error {
	return gerror.New(IOErrorQuark, int(code), format, args...)
}

// IsIOError reports whether err (or an error in its chain) is an IO error
// with the given code.
func IsIOError(err error, code IOErrorEnum) bool {
	return errors.Is(err, &gerror.Error{Domain: IOErrorQuark, Code: int(code)})
}

// IOErrorFromErrno maps a system error number to an IO error code.
//
//nolint:cyclop
func IOErrorFromErrno(errno unix.Errno) IOErrorEnum {
	switch errno {
	case unix.EEXIST:
		return IOErrorExists
	case unix.EISDIR:
		return IOErrorIsDirectory
	case unix.EACCES, unix.EPERM:
		return IOErrorPermissionDenied
	case unix.ENAMETOOLONG:
		return IOErrorFilenameTooLong
	case unix.ENOENT:
		return IOErrorNotFound
	case unix.ENOTDIR:
		return IOErrorNotDirectory
	case unix.EROFS:
		return IOErrorReadOnly
	case unix.ELOOP:
		return IOErrorTooManyLinks
	case unix.ENOSPC, unix.ENOMEM:
		return IOErrorNoSpace
	case unix.EINVAL:
		return IOErrorInvalidArgument
	case unix.EBUSY:
		return IOErrorBusy
	case unix.EAGAIN:
		return IOErrorWouldBlock
	case unix.ETIMEDOUT:
		return IOErrorTimedOut
	case unix.ECANCELED:
		return IOErrorCancelled
	case unix.ENOTEMPTY:
		return IOErrorNotEmpty
	case unix.ENOTSUP:
		return IOErrorNotSupported
	case unix.EMFILE, unix.ENFILE:
		return IOErrorTooManyOpenFiles
	default:
		return IOErrorFailed
	}
}

// ErrorFrom converts any Go error into a native error object. Native errors
// in the chain are passed through unchanged, anything else is mapped into
// the [IOErrorQuark] domain.
func ErrorFrom(err error) *gerror.Error {
	if err == nil {
		return nil
	}

	if gerr, ok := gerror.Find(err); ok {
		return gerr
	}

	var errno unix.Errno

	switch {
	case errors.Is(err, context.Canceled):
		return NewIOError(IOErrorCancelled, "Operation was cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return NewIOError(IOErrorTimedOut, "%s", err.Error())
	case errors.As(err, &errno):
		return NewIOError(IOErrorFromErrno(errno), "%s", err.Error())
	case errors.Is(err, fs.ErrNotExist):
		return NewIOError(IOErrorNotFound, "%s", err.Error())
	case errors.Is(err, fs.ErrExist):
		return NewIOError(IOErrorExists, "%s", err.Error())
	case errors.Is(err, fs.ErrPermission):
		return NewIOError(IOErrorPermissionDenied, "%s", err.Error())
	case errors.Is(err, fs.ErrClosed):
		return NewIOError(IOErrorClosed, "%s", err.Error())
	case errors.Is(err, fs.ErrInvalid):
		return NewIOError(IOErrorInvalidArgument, "%s", err.Error())
	default:
		return NewIOError(IOErrorFailed, "%s", err.Error())
	}
}

func errNotSupported() *gerror.Error {
	return NewIOError(IOErrorNotSupported, "Operation not supported")
}

var (
	// ErrNotFileEnumerator is returned when instantiating a type that does not
	// derive from the file enumerator type.
	ErrNotFileEnumerator = errors.New("type is not a file enumerator")

	// ErrNotFileMonitor is returned when instantiating a type that does not
	// derive from the file monitor type.
	ErrNotFileMonitor = errors.New("type is not a file monitor")

	// ErrNotPollFileMonitor is returned when instantiating a type that does
	// not derive from the polling file monitor type.
	ErrNotPollFileMonitor = errors.New("type is not a polling file monitor")

	// ErrNotVfs is returned when instantiating a type that does not derive
	// from the vfs type.
	ErrNotVfs = errors.New("type is not a vfs")
)
