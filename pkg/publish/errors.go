package publish

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidPath   = errors.New("invalid path")
	ErrNilStorage    = errors.New("storage is nil")
	ErrNilManifest   = errors.New("manifest is nil")

	ErrFileNotFound      = errors.New("file not found")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNotDirectory      = errors.New("path is not a directory")
	ErrIsDirectory       = errors.New("path is a directory")

	// S3 error classification targets.
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")

	ErrPaginatorNil       = errors.New("paginator factory returned nil")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
