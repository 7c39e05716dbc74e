package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/matzehuels/strut/pkg/cassowary"
	"github.com/matzehuels/strut/pkg/errors"
	"github.com/matzehuels/strut/pkg/layout"
)

// newGraphCmd creates the graph command, which renders the constraint
// system a request compiles into.
func newGraphCmd() *cobra.Command {
	var (
		total    int
		spacing  int
		flexName string
		specPath string
		output   string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "graph [rule]...",
		Short: "Render a request's constraint system",
		Long: `Compile a layout request into its constraint system and render it as a
bipartite graph: variables on one side, constraints on the other, with an
edge wherever a constraint mentions a variable.

Useful for understanding why a layout came out the way it did - required
constraints are drawn solid, soft preferences dashed.`,
		Example: `  strut graph "length(20)" "fill(1)" --total 100 -o system.svg
  strut graph "percent(30)" "fill(2)" -F dot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleSpecs := args
			if specPath != "" {
				spec, err := loadSpec(specPath)
				if err != nil {
					return err
				}
				if len(ruleSpecs) == 0 {
					ruleSpecs = spec.Rules
				}
				if !cmd.Flags().Changed("total") {
					total = spec.Total
				}
				if !cmd.Flags().Changed("spacing") {
					spacing = spec.Spacing
				}
				if !cmd.Flags().Changed("flex") && spec.Flex != "" {
					flexName = spec.Flex
				}
			}
			return runGraph(cmd.Context(), ruleSpecs, total, spacing, flexName, output, format)
		},
	}

	cmd.Flags().IntVarP(&total, "total", "t", 100, "total extent in cells")
	cmd.Flags().IntVarP(&spacing, "spacing", "s", 0, "cells between consecutive items")
	cmd.Flags().StringVarP(&flexName, "flex", "f", "stretch", "leftover placement policy")
	cmd.Flags().StringVar(&specPath, "spec", "", "read the request from a TOML file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "F", "svg", "output format: svg, dot")

	return cmd
}

func runGraph(ctx context.Context, ruleSpecs []string, total, spacing int, flexName, output, format string) error {
	logger := loggerFromContext(ctx)

	if err := errors.ValidateRuleCount(len(ruleSpecs)); err != nil {
		return err
	}
	flex, err := layout.ParseFlex(flexName)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFlex, err, "parse flex")
	}
	rules, err := parseRules(ruleSpecs)
	if err != nil {
		return err
	}

	sys := layout.BuildSystem(rules, total, spacing, flex)
	dot := systemToDOT(sys)

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		prog := newProgress(logger)
		data, err = renderSVG(ctx, dot)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %d constraints", len(sys.Hard)+len(sys.Soft)))
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg or dot)", format)
	}

	if output == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote constraint graph")
	printFile(output)
	return nil
}

// systemToDOT converts a constraint system to Graphviz DOT format.
// Variables render as boxes, constraints as ellipses; required constraints
// use solid edges, soft ones dashed.
func systemToDOT(sys layout.System) string {
	var buf bytes.Buffer
	buf.WriteString("graph system {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	for _, v := range sys.Items {
		fmt.Fprintf(&buf, "  %q [shape=box, style=\"rounded,filled\", fillcolor=lightblue];\n", v.Name())
	}
	for _, v := range sys.Spacers {
		fmt.Fprintf(&buf, "  %q [shape=box, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", v.Name())
	}

	buf.WriteString("\n")
	emit := func(id string, c *cassowary.Constraint, dashed bool) {
		style := "solid"
		if dashed {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n", id, constraintLabel(c))
		for _, term := range c.Expression().Terms() {
			fmt.Fprintf(&buf, "  %q -- %q [style=%s];\n", term.Variable.Name(), id, style)
		}
	}
	for i, c := range sys.Hard {
		emit(fmt.Sprintf("hard%d", i), c, false)
	}
	for i, c := range sys.Soft {
		emit(fmt.Sprintf("soft%d", i), c, true)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// constraintLabel formats a constraint for display, trimming long
// expressions so node labels stay readable.
func constraintLabel(c *cassowary.Constraint) string {
	s := c.String()
	if i := strings.IndexByte(s, '['); i > 0 {
		s = strings.TrimSpace(s[:i]) + "\n" + s[i:]
	}
	return s
}

// renderSVG renders a DOT graph to SVG using Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
