package domain

import "errors"

var (
	// ErrUsage is returned when neither or both of url and file are given.
	ErrUsage = errors.New("exactly one of --url or --file is required")

	// ErrOutputDirPermission is returned when the output directory cannot be created.
	ErrOutputDirPermission = errors.New("output directory not writable")

	ErrInputNotFound   = errors.New("input file not found")
	ErrInputPermission = errors.New("input file permission denied")

	// ErrNoMedia is returned when the extractor finished without producing a file.
	ErrNoMedia = errors.New("no media downloaded")

	ErrNotFound   = errors.New("record not found")
	ErrInProgress = errors.New("download still in progress")
)
