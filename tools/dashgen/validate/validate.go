// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and reference only known metrics.
package validate

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	promds "github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/esim-device-finder/tools/dashgen/rules"
)

// Result collects validation problems. Errors fail generation; warnings
// are reported only.
type Result struct {
	Errors   []error
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Expr parses expr and checks its metric names against known.
func Expr(where, expr string, known map[string]bool) Result {
	var res Result

	if expr == "" {
		res.Errors = append(res.Errors, fmt.Errorf("%s: empty expression", where))
		return res
	}

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("%s: %w", where, err))
		return res
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[vs.Name] {
			res.Errors = append(res.Errors, fmt.Errorf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})

	return res
}

// Dashboard validates every Prometheus target of every panel.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	check := func(p dashboard.Panel) {
		title := "untitled panel"
		if p.Title != nil {
			title = *p.Title
		}
		if len(p.Targets) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no targets", title))
		}
		for _, t := range p.Targets {
			var expr string
			switch q := t.(type) {
			case promds.Dataquery:
				expr = q.Expr
			case *promds.Dataquery:
				expr = q.Expr
			default:
				res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has a non-Prometheus target", title))
				continue
			}
			res.merge(Expr("panel "+title, expr, known))
		}
	}

	for _, p := range dash.Panels {
		switch {
		case p.Panel != nil:
			check(*p.Panel)
		case p.RowPanel != nil:
			for _, inner := range p.RowPanel.Panels {
				check(inner)
			}
		}
	}
	return res
}

// Rules validates every expression of a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			res.merge(Expr(g.Name+"/"+name, r.Expr, known))
		}
	}
	return res
}

func (r *Result) merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
