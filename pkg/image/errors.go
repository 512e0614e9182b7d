package image

import "errors"

// Sentinel errors related to image tag handling.
var (
	// ErrEmptyTag is returned when the tag is empty.
	ErrEmptyTag = errors.New("tag cannot be empty")

	// ErrInvalidTagFormat is returned when the tag does not follow the OCI tag grammar.
	ErrInvalidTagFormat = errors.New("invalid tag format")
)
