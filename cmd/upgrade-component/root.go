package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/upgrade-component/pkg/exitcodes"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/fileutil"
	log "github.com/lucas-albers-lz4/upgrade-component/pkg/log"
	"github.com/lucas-albers-lz4/upgrade-component/pkg/updater"
)

const (
	componentFlag = "component"
	versionFlag   = "version"
)

// AppFs is the filesystem the command works on. Tests swap it for an in-memory one.
var AppFs fileutil.FS = fileutil.DefaultFS

// SetFs replaces AppFs and returns a function restoring the previous value.
func SetFs(fsys fileutil.FS) func() {
	old := AppFs
	AppFs = fsys
	return func() { AppFs = old }
}

// config holds the decoded command-line options.
type config struct {
	Component string `mapstructure:"component"`
	Version   string `mapstructure:"version"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "upgrade-component PATH",
		Short: "Update the image tag of a component in a chart's values.yaml",
		Long: `upgrade-component sets <component>.image.tag in PATH/values.yaml to the given
version. Comments, key order and formatting of the file are preserved; only the
tag value changes.`,
		Example:       "  upgrade-component ./charts/app -c api -v 1.1.0",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			var cfg config
			if err := v.Unmarshal(&cfg); err != nil {
				return &exitcodes.ExitCodeError{Code: exitcodes.ExitInputConfigurationError, Err: err}
			}
			return run(args[0], cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP(componentFlag, "c", "", "Top-level component key in values.yaml (required)")
	flags.StringP(versionFlag, "v", "", "New image tag for the component")
	if err := cmd.MarkFlagRequired(componentFlag); err != nil {
		log.Error("Failed to mark flag as required", "flag", componentFlag, "error", err)
	}
	for _, name := range []string{componentFlag, versionFlag} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Error("Failed to bind flag", "flag", name, "error", err)
		}
	}
	return cmd
}

func run(chartPath string, cfg config) error {
	result, err := updater.Update(AppFs, updater.Options{
		ChartPath: chartPath,
		Component: cfg.Component,
		Version:   cfg.Version,
	})
	if err != nil {
		return err
	}
	log.Debug("Update finished", "file", result.ValuesFile, "changed", result.Changed)
	return nil
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return execute(newRootCmd())
}

// execute runs cmd and attaches a stack trace to any failure. Errors cobra
// raises itself (argument count, required flags, unknown flags) are usage
// errors.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err == nil {
		return nil
	}
	if _, ok := exitcodes.IsExitCodeError(err); !ok {
		err = &exitcodes.ExitCodeError{Code: exitcodes.ExitMissingRequiredFlag, Err: err}
	}
	return errors.WithStack(err)
}

// reportError prints err with its stack trace and the meaning of its exit
// code to w, and returns the exit code.
func reportError(w io.Writer, err error) int {
	code := exitcodes.CodeFor(err)
	fmt.Fprintf(w, "Error: %+v\n", err)
	if desc, ok := exitcodes.CodeDescriptions[code]; ok {
		fmt.Fprintf(w, "Exit code %d: %s\n", code, desc)
	}
	return code
}
