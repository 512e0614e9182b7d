package values

import (
	"errors"
	"fmt"
)

// Values package errors.
var (
	// ErrParse is returned when the document is not valid YAML.
	ErrParse = errors.New("failed to parse values YAML")

	// ErrKeyNotFound is the parent of every missing-key lookup error.
	ErrKeyNotFound = errors.New("key not found")

	// ErrComponentNotFound is returned when the component is not a top-level key.
	ErrComponentNotFound = fmt.Errorf("component %w", ErrKeyNotFound)

	// ErrImageNotFound is returned when the component has no image key.
	ErrImageNotFound = fmt.Errorf("image %w", ErrKeyNotFound)

	// ErrTagNotFound is returned when the component image has no tag key.
	ErrTagNotFound = fmt.Errorf("tag %w", ErrKeyNotFound)

	// ErrNotAMapping is returned when a value on the lookup path is not a mapping.
	ErrNotAMapping = errors.New("value is not a mapping")

	// ErrUnsupportedEdit is returned when an edit cannot be rendered without losing content.
	ErrUnsupportedEdit = errors.New("unsupported edit")
)

// WrapParse wraps ErrParse with the decoder error for context.
func WrapParse(err error) error {
	return fmt.Errorf("%w: %w", ErrParse, err)
}

// WrapComponentNotFound wraps ErrComponentNotFound with the component name.
func WrapComponentNotFound(component string) error {
	return fmt.Errorf("%w: %q", ErrComponentNotFound, component)
}

// WrapImageNotFound wraps ErrImageNotFound with the component name.
func WrapImageNotFound(component string) error {
	return fmt.Errorf("%w: %s.image", ErrImageNotFound, component)
}

// WrapTagNotFound wraps ErrTagNotFound with the component name.
func WrapTagNotFound(component string) error {
	return fmt.Errorf("%w: %s.image.tag", ErrTagNotFound, component)
}

// WrapNotAMapping wraps ErrNotAMapping with the offending path and node kind.
func WrapNotAMapping(path, kind string) error {
	return fmt.Errorf("%w: %s is a %s", ErrNotAMapping, path, kind)
}
