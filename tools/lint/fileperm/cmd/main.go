// Command fileperm-lint reports hardcoded permission literals in file-writing calls.
package main

import (
	"github.com/lucas-albers-lz4/upgrade-component/tools/lint/fileperm"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(fileperm.Analyzer)
}
