// Package main implements the upgrade-component command, which bumps the image
// tag of one component in a Helm chart's values.yaml.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}
