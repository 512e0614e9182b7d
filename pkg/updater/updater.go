// Package updater bumps the image tag of one component in a chart's values.yaml.
package updater

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/lucas-albers-lz4/upgrade-component/pkg/exitcodes"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/fileutil"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/image"
	log "github.com/lucas-albers-lz4/upgrade-component/pkg/log"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/values"
)

// Options describes a single tag update.
type Options struct {
	// ChartPath is the chart directory holding values.yaml.
	ChartPath string
	// Component is the top-level key in values.yaml.
	Component string
	// Version is the new image tag.
	Version string
}

// Result reports what Update did.
type Result struct {
	ValuesFile  string
	Component   string
	Repository  string
	PreviousTag string
	NewTag      string
	// Changed is false when the file already held the requested tag and was left untouched.
	Changed bool
}

// Validate checks that every option is set.
func (o Options) Validate() error {
	var err error
	switch {
	case o.ChartPath == "":
		err = ErrMissingChartPath
	case o.Component == "":
		err = ErrMissingComponent
	case o.Version == "":
		err = ErrMissingVersion
	default:
		return nil
	}
	return &exitcodes.ExitCodeError{Code: exitcodes.ExitMissingRequiredFlag, Err: err}
}

// ValuesFilePath returns the path of the values file inside chartPath.
func ValuesFilePath(chartPath string) string {
	return filepath.Join(chartPath, chartutil.ValuesfileName)
}

// Update sets <Component>.image.tag to Version in <ChartPath>/values.yaml.
// On any error the file is left as it was.
func Update(fsys fileutil.FS, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	valuesFile := ValuesFilePath(opts.ChartPath)
	log.Debug("Updating values file", "file", valuesFile, "component", opts.Component, "version", opts.Version)

	info, err := fsys.Stat(valuesFile)
	if err != nil {
		code := exitcodes.ExitIOError
		if errors.Is(err, os.ErrNotExist) {
			code = exitcodes.ExitValuesNotFound
		}
		return nil, &exitcodes.ExitCodeError{Code: code, Err: fmt.Errorf("failed to locate values file: %w", err)}
	}
	if info.IsDir() {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitValuesNotFound,
			Err:  fmt.Errorf("%w: %s", ErrValuesIsDirectory, valuesFile),
		}
	}

	data, err := fsys.ReadFile(valuesFile)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
	}

	doc, err := values.Parse(data)
	if err != nil {
		code := exitcodes.ExitUnsupportedValues
		if errors.Is(err, values.ErrParse) {
			code = exitcodes.ExitValuesParsingError
		}
		return nil, &exitcodes.ExitCodeError{Code: code, Err: fmt.Errorf("%s: %w", valuesFile, err)}
	}

	loc, err := doc.Lookup(opts.Component)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitUnsupportedValues, Err: fmt.Errorf("%s: %w", valuesFile, err)}
	}
	previous, err := doc.SetImageTag(opts.Component, opts.Version)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitUnsupportedValues, Err: fmt.Errorf("%s: %w", valuesFile, err)}
	}

	rendered, err := doc.Bytes()
	if err != nil {
		code := exitcodes.ExitInternalError
		if errors.Is(err, values.ErrUnsupportedEdit) {
			code = exitcodes.ExitUnsupportedValues
		}
		return nil, &exitcodes.ExitCodeError{Code: code, Err: fmt.Errorf("%s: %w", valuesFile, err)}
	}

	if err := verify(data, rendered, opts.Component, opts.Version); err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInternalError, Err: fmt.Errorf("%s: %w", valuesFile, err)}
	}

	if err := image.ValidateTag(opts.Version); err != nil {
		log.Warn("Version is not a valid image tag, writing it as given", "version", opts.Version, "error", err)
	}

	result := &Result{
		ValuesFile:  valuesFile,
		Component:   opts.Component,
		Repository:  loc.Repository,
		PreviousTag: previous,
		NewTag:      opts.Version,
	}

	if bytes.Equal(rendered, data) {
		log.Info("Image tag already up to date", "file", valuesFile, "component", opts.Component, "tag", opts.Version)
		return result, nil
	}

	if err := fileutil.WriteFileAtomic(fsys, valuesFile, rendered, info.Mode().Perm()); err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
	}
	result.Changed = true

	log.Info("Updated image tag", "file", valuesFile, "component", opts.Component, "previous", previous, "tag", opts.Version)
	if loc.Repository != "" {
		log.Info("Image reference updated",
			"from", image.Describe(loc.Repository, previous),
			"to", image.Describe(loc.Repository, opts.Version))
	}
	return result, nil
}

// verify reads rendered the way Helm does and checks the tag comes back as
// the exact string that was set. Files Helm cannot read to begin with are
// not verified.
func verify(original, rendered []byte, component, version string) error {
	if _, err := chartutil.ReadValues(original); err != nil {
		log.Warn("Helm cannot read the original values file, skipping verification", "error", err)
		return nil
	}
	vals, err := chartutil.ReadValues(rendered)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}

	comp, _ := vals[component].(map[string]interface{})
	img, _ := comp["image"].(map[string]interface{})
	got, ok := img["tag"].(string)
	if !ok || got != version {
		return fmt.Errorf("%w: %s.image.tag reads back as %v", ErrVerification, component, img["tag"])
	}
	return nil
}
