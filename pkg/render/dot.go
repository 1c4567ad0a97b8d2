package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gitscape/pkg/dag"
)

// DOTOptions configures commit-graph DOT export.
type DOTOptions struct {
	// Detailed includes depth, lane, and timestamp in node labels.
	// When false, only the commit ID (or its label) is shown.
	Detailed bool
}

// ToDOT converts a commit store to Graphviz DOT format for nodelink export.
// Edges run parent→child so time flows downward with rankdir=TB. Merge edges
// (from the incoming parent) are dashed, custom commits get a grey fill, and
// branch heads are annotated with the branch name.
func ToDOT(s *dag.Store, opts DOTOptions) string {
	heads := make(map[string][]string)
	for _, name := range s.BranchNames() {
		b := s.Branches[name]
		heads[b.Head] = append(heads[b.Head], name)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph commits {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, fixedsize=false];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("\n")

	for _, c := range s.SortedCommits() {
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(c, heads[c.ID], opts.Detailed))}
		if c.Custom {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		if len(heads[c.ID]) > 0 {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range s.SortedCommits() {
		for i, p := range c.ParentIDs {
			if _, ok := s.Commit(p); !ok {
				continue
			}
			if i == 1 && c.IsMerge() {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", p, c.ID)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", p, c.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(c dag.Commit, branches []string, detailed bool) string {
	label := c.ID
	if c.Label != "" {
		label = c.Label
	}
	parts := []string{label}
	if len(branches) > 0 {
		parts = append(parts, "["+strings.Join(branches, ", ")+"]")
	}
	if detailed {
		parts = append(parts, fmt.Sprintf("depth: %d", c.Depth), fmt.Sprintf("lane: %d", c.Lane))
	}
	return strings.Join(parts, "\n")
}

// DOTToSVG renders a DOT graph to SVG using Graphviz.
func DOTToSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return normalizeViewBox(buf.Bytes()), nil
}

// DOTToPNG renders a DOT graph to PNG using Graphviz.
func DOTToPNG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the viewBox starts at
// the origin with explicit pixel dimensions, which embeds cleanly in the UI.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
