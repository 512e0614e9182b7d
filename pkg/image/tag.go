// Package image provides helpers for container image tags and references.
package image

import (
	"fmt"
	"regexp"

	"github.com/distribution/reference"
)

// anchoredTagRegexp matches a complete tag (reference.TagRegexp is unanchored).
var anchoredTagRegexp = regexp.MustCompile(`^` + reference.TagRegexp.String() + `$`)

// ValidateTag checks tag against the OCI distribution tag grammar:
// up to 128 word characters, dots and dashes, not starting with a dot or dash.
func ValidateTag(tag string) error {
	if tag == "" {
		return ErrEmptyTag
	}
	if !anchoredTagRegexp.MatchString(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTagFormat, tag)
	}
	return nil
}

// Describe renders repository and tag as a familiar image reference such as
// "nginx:1.25" or "example.com/team/api:1.1.0". Repositories the reference
// grammar rejects (templated values, for instance) are joined verbatim.
func Describe(repository, tag string) string {
	named, err := reference.ParseNormalizedNamed(repository)
	if err != nil {
		return repository + ":" + tag
	}
	tagged, err := reference.WithTag(reference.TrimNamed(named), tag)
	if err != nil {
		return reference.FamiliarName(named) + ":" + tag
	}
	return reference.FamiliarString(tagged)
}
