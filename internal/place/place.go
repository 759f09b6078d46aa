// Package place assigns initial grid positions to sibling scene nodes.
//
// Blocks are arranged in columns following signal flow: a topological
// ordering of the sibling connectivity graph decides the column of each
// block, and blocks sharing a column are stacked top to bottom. Feedback
// cycles (register loops) make the graph unorderable, in which case blocks
// fall back to one column per definition-order index.
package place

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"rtl-scope/pkg/grid"
)

const (
	// margin keeps blocks clear of the parent's edge so the interior grid
	// overlay and port columns have room.
	margin = 2
	// gap separates adjacent blocks.
	gap = 2
)

// Assign computes one position per block. sizes holds each block's bounding
// rectangle including port columns; edges lists directed connections between
// block indices. The returned slice is index-aligned with sizes.
func Assign(sizes []grid.Rect, edges [][2]int) []grid.Point {
	n := len(sizes)
	if n == 0 {
		return nil
	}

	cols := columnOf(n, edges)

	// Column widths and x offsets.
	maxCol := 0
	for _, c := range cols {
		if c > maxCol {
			maxCol = c
		}
	}
	colWidth := make([]int, maxCol+1)
	for i, c := range cols {
		if w := sizes[i].Width; w > colWidth[c] {
			colWidth[c] = w
		}
	}
	colX := make([]int, maxCol+1)
	x := margin
	for c := 0; c <= maxCol; c++ {
		colX[c] = x
		x += colWidth[c] + gap
	}

	// Stack blocks within each column in index order.
	colY := make([]int, maxCol+1)
	for c := range colY {
		colY[c] = margin
	}
	positions := make([]grid.Point, n)
	for i, c := range cols {
		positions[i] = grid.Pt(colX[c], colY[c])
		colY[c] += sizes[i].Height + gap
	}
	return positions
}

// columnOf computes the column index of each block: its longest-path depth
// in the connectivity graph, or its definition index when the graph has a
// cycle.
func columnOf(n int, edges [][2]int) []int {
	g := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		if e[0] == e[1] || e[0] < 0 || e[1] < 0 || e[0] >= n || e[1] >= n {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
	}

	order, err := topo.SortStabilized(g, nil)
	cols := make([]int, n)
	if err != nil {
		// Feedback cycle: definition order, one block per column.
		for i := range cols {
			cols[i] = i
		}
		return cols
	}

	// Longest-path relaxation in topological order.
	for _, node := range order {
		u := int(node.ID())
		to := g.From(node.ID())
		for to.Next() {
			v := int(to.Node().ID())
			if cols[u]+1 > cols[v] {
				cols[v] = cols[u] + 1
			}
		}
	}
	return cols
}
