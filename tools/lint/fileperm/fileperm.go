// Package fileperm provides a linter that reports hard-coded permission
// literals passed to file-writing calls.
package fileperm

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports permission literals that have a named constant in pkg/fileutil.
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of using fileutil constants",
	Run:  run,
}

// permArgIndex maps a call name to the position of its permission argument.
var permArgIndex = map[string]int{
	"WriteFile":       2,
	"WriteFileAtomic": 3,
	"MkdirAll":        1,
	"Mkdir":           1,
	"Chmod":           1,
}

// permConstants maps a permission value to the constant that should be used instead.
var permConstants = map[int64]string{
	0o600: "fileutil.ReadWriteUserPermission",
	0o644: "fileutil.ReadWriteUserReadOthers",
	0o755: "fileutil.ReadWriteExecuteUserReadExecuteOthers",
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			idx, ok := permArgIndex[calleeName(call)]
			if !ok || len(call.Args) <= idx {
				return true
			}
			lit, ok := call.Args[idx].(*ast.BasicLit)
			if !ok || lit.Kind != token.INT {
				return true
			}
			perm, err := strconv.ParseInt(lit.Value, 0, 64)
			if err != nil {
				return true
			}
			if name, ok := permConstants[perm]; ok {
				pass.Reportf(lit.Pos(), "use %s instead of hardcoded %s", name, lit.Value)
			}
			return true
		})
	}
	return nil, nil
}

// calleeName returns the function or method name of call, or "".
func calleeName(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		return fun.Sel.Name
	case *ast.Ident:
		return fun.Name
	}
	return ""
}
