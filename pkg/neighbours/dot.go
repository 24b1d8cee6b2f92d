package neighbours

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// DOT converts the result to Graphviz DOT format: one ellipse per
// stargazer, one box per neighbour repository labelled with its count,
// and an edge from each stargazer to every neighbour it starred.
// The output can be rendered with [RenderSVG].
func (r Result) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("\n")

	seen := make(map[string]bool)
	for _, e := range r {
		for _, login := range e.Stargazers {
			if seen[login] {
				continue
			}
			seen[login] = true
			fmt.Fprintf(&buf, "  %q [shape=ellipse];\n", "@"+login)
		}
	}

	buf.WriteString("\n")
	for _, e := range r {
		label := fmt.Sprintf("%s\n%d", e.Repo, len(e.Stargazers))
		fmt.Fprintf(&buf, "  %q [shape=box, style=\"rounded,filled\", label=%q];\n", e.Repo, label)
	}

	buf.WriteString("\n")
	for _, e := range r {
		for _, login := range e.Stargazers {
			fmt.Fprintf(&buf, "  %q -> %q;\n", "@"+login, e.Repo)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
