package content

import "errors"

// Sentinel errors for content discovery. Callers wrap them with the offending path.
var (
	// ErrDocsDirNotFound indicates the configured docs directory does not exist.
	ErrDocsDirNotFound = errors.New("docs directory not found")

	// ErrDocsDirWalkFailed indicates filesystem traversal of the docs directory failed.
	ErrDocsDirWalkFailed = errors.New("docs directory walk failed")

	// ErrFileReadFailed indicates reading a content document failed.
	ErrFileReadFailed = errors.New("content document read failed")

	// ErrDuplicateID indicates two documents resolve to the same id.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrDuplicatePermalink indicates two documents resolve to the same URL.
	ErrDuplicatePermalink = errors.New("duplicate document permalink")

	// ErrInvalidCategory indicates a _category_ metadata file could not be parsed.
	ErrInvalidCategory = errors.New("invalid category metadata")
)
