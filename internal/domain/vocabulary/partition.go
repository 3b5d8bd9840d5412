package vocabulary

// Cell is a rectangle of the icicle plot for one node.
type Cell struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Count int     `json:"count"`
	Depth int     `json:"depth"`
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	Y0    float64 `json:"y0"`
	Y1    float64 `json:"y1"`
}

// Partition lays the tree out as a space-filling icicle plot: one row per depth,
// the root spanning the full width, and siblings sharing their parent's span in
// proportion to their reported counts (equal shares when all counts are zero).
func Partition(root *Node, width, height float64) []Cell {
	if root == nil || width <= 0 || height <= 0 {
		return nil
	}
	rowHeight := height / float64(root.Depth()+1)
	var cells []Cell
	var place func(n *Node, depth int, x0, x1 float64)
	place = func(n *Node, depth int, x0, x1 float64) {
		cells = append(cells, Cell{
			ID:    n.ID,
			Label: n.Label,
			Count: n.Count,
			Depth: depth,
			X0:    x0,
			X1:    x1,
			Y0:    float64(depth) * rowHeight,
			Y1:    float64(depth+1) * rowHeight,
		})
		children := nonNil(n.Children)
		if len(children) == 0 {
			return
		}
		total := 0
		for _, c := range children {
			if c.Count > 0 {
				total += c.Count
			}
		}
		span := x1 - x0
		x := x0
		for i, c := range children {
			var share float64
			if total == 0 {
				share = span / float64(len(children))
			} else if c.Count > 0 {
				share = span * float64(c.Count) / float64(total)
			}
			end := x + share
			if i == len(children)-1 {
				end = x1
			}
			place(c, depth+1, x, end)
			x = end
		}
	}
	place(root, 0, 0, width)
	return cells
}

// nonNil drops null entries the upstream may send in a children list.
func nonNil(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
