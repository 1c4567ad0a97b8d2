package layout

import "math"

// CollisionThreshold is the pixel distance below which two commits count as
// rendered at indistinguishable coordinates.
const CollisionThreshold = 2.0

// FindCollisions reports every unordered pair of distinct commits whose
// coordinates are closer than CollisionThreshold. The scan is O(n²), which is
// fine at interactive graph sizes; it exists to catch coordinate aliasing
// from lane or depth bugs and never mutates the layout.
//
// Each colliding pair appears exactly once, ordered (earlier, later) by the
// input slice.
func FindCollisions(commits []PositionedCommit) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(commits); i++ {
		for j := i + 1; j < len(commits); j++ {
			dx := commits[i].X - commits[j].X
			dy := commits[i].Y - commits[j].Y
			if math.Hypot(dx, dy) < CollisionThreshold {
				pairs = append(pairs, [2]string{commits[i].ID, commits[j].ID})
			}
		}
	}
	return pairs
}
