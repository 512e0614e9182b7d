package updater

import "errors"

// Updater errors.
var (
	// ErrMissingChartPath is returned when no chart directory is given.
	ErrMissingChartPath = errors.New("chart path is required")

	// ErrMissingComponent is returned when no component name is given.
	ErrMissingComponent = errors.New("component is required")

	// ErrMissingVersion is returned when no version is given.
	ErrMissingVersion = errors.New("version is required")

	// ErrValuesIsDirectory is returned when values.yaml is a directory.
	ErrValuesIsDirectory = errors.New("values path is a directory")

	// ErrVerification is returned when Helm does not read back the tag that was set.
	ErrVerification = errors.New("rendered values failed verification")
)
