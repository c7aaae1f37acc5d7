// Package globalregistry defines an analyzer that reports use of the process-wide Prometheus registry.
//
// Every exporter owns its own *prometheus.Registry, so package-level registration
// helpers, promauto constructors and promhttp.Handler are forbidden.
package globalregistry

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const (
	prometheusPath = "github.com/prometheus/client_golang/prometheus"
	promautoPath   = prometheusPath + "/promauto"
	promhttpPath   = prometheusPath + "/promhttp"
)

// Analyzer is the globalregistry analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "globalregistry",
	Doc:      "reports use of the default Prometheus registerer and gatherer",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("failed to assert type: expected *inspector.Inspector")
	}

	insp.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok || sel.Sel == nil {
			return
		}
		if what := forbidden(pass.TypesInfo.Uses[sel.Sel]); what != "" {
			pass.Reportf(sel.Pos(), "%s uses the global Prometheus registry; register on a private prometheus.Registry instead", what)
		}
	})

	return nil, nil
}

// forbidden returns the qualified name of obj if it touches the global registry.
func forbidden(obj types.Object) string {
	if obj == nil || obj.Pkg() == nil {
		return ""
	}
	path, name := obj.Pkg().Path(), obj.Name()
	qualified := obj.Pkg().Name() + "." + name

	switch o := obj.(type) {
	case *types.Var:
		if path == prometheusPath && (name == "DefaultRegisterer" || name == "DefaultGatherer") {
			return qualified
		}
	case *types.Func:
		sig, ok := o.Type().(*types.Signature)
		if !ok || sig.Recv() != nil {
			return ""
		}
		switch path {
		case prometheusPath:
			if name == "MustRegister" || name == "Register" || name == "Unregister" {
				return qualified
			}
		case promautoPath:
			if strings.HasPrefix(name, "New") {
				return qualified
			}
		case promhttpPath:
			if name == "Handler" {
				return qualified
			}
		}
	}
	return ""
}
