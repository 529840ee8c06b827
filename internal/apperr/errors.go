package apperr

import "errors"

var (
	ErrRootNotFound = errors.New("folder path does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
)
