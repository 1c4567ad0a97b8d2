// Package render turns a computed layout into presentational output: an SVG
// lane grid for the interactive UI, and Graphviz DOT/SVG/PNG exports for
// sharing. It consumes layout results and never feeds back into the engines.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/layout"
)

// Lane palette, repeated when a graph has more branches than colors.
var laneColors = []string{
	"#4078c0", // blue - mainline
	"#6cc644", // green
	"#bd2c00", // red
	"#c9510c", // orange
	"#6e5494", // purple
	"#0086b3", // teal
}

const commitRadius = 10

func laneColor(lane int) string {
	if lane < 0 {
		lane = -lane
	}
	return laneColors[lane%len(laneColors)]
}

// SVG renders the lane-grid view: straight parent edges (dashed for the
// incoming side of a merge), one circle per commit colored by lane, and a
// branch label beside every head commit.
func SVG(res layout.Result, s *dag.Store) []byte {
	pos := make(map[string]layout.PositionedCommit, len(res.Commits))
	for _, pc := range res.Commits {
		pos[pc.ID] = pc
	}

	heads := make(map[string][]string) // commit ID -> branch names
	for _, name := range s.BranchNames() {
		b := s.Branches[name]
		heads[b.Head] = append(heads[b.Head], name)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		res.Width, res.Height, res.Width, res.Height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="#fafafa"/>` + "\n")

	// Edges first so nodes draw on top.
	for _, e := range res.Edges {
		child, okC := pos[e.ChildID]
		parent, okP := pos[e.ParentID]
		if !okC || !okP {
			continue
		}
		dash := ""
		if e.Incoming {
			dash = ` stroke-dasharray="6,4"`
		}
		fmt.Fprintf(&buf,
			`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"%s/>`+"\n",
			parent.X, parent.Y, child.X, child.Y, laneColor(child.Lane), dash)
	}

	for _, pc := range res.Commits {
		fmt.Fprintf(&buf,
			`  <circle cx="%.1f" cy="%.1f" r="%d" fill="%s" stroke="#24292e" stroke-width="1.5"/>`+"\n",
			pc.X, pc.Y, commitRadius, laneColor(pc.Lane))
		if pc.Label != "" {
			fmt.Fprintf(&buf,
				`  <text x="%.1f" y="%.1f" font-size="11" fill="#586069">%s</text>`+"\n",
				pc.X+commitRadius+4, pc.Y-4, html.EscapeString(pc.Label))
		}
		for i, name := range heads[pc.ID] {
			fmt.Fprintf(&buf,
				`  <text x="%.1f" y="%.1f" font-size="12" font-weight="bold" fill="%s">%s</text>`+"\n",
				pc.X+commitRadius+4, pc.Y+12+float64(i)*14, laneColor(pc.Lane), html.EscapeString(name))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
