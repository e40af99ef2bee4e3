package boolean

import "github.com/chazu/floorplan/pkg/geom"

// NodeID indexes a node in a Tree. NoNode marks the parent of a root.
type NodeID int

// NoNode is the parent of root nodes.
const NoNode NodeID = -1

// Node is one contour of a boolean result.
type Node struct {
	Ring     geom.Ring `json:"ring"`
	IsHole   bool      `json:"isHole"`
	Depth    int       `json:"depth"`
	Parent   NodeID    `json:"parent"`
	Children []NodeID  `json:"children,omitempty"`
}

// Tree is an arena of contour nodes. Children nest strictly inside their
// parent; IsHole alternates with depth, roots (depth 0) being solid. A Tree
// is built fresh by every boolean call and shares nothing with other trees.
type Tree struct {
	Nodes []Node   `json:"nodes"`
	Roots []NodeID `json:"roots"`
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// IsEmpty reports whether t has no nodes.
func (t *Tree) IsEmpty() bool {
	return len(t.Nodes) == 0
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Add appends a node under parent (NoNode for a root) and returns its id.
// Depth and the hole flag are derived from the parent.
func (t *Tree) Add(parent NodeID, ring geom.Ring) NodeID {
	depth := 0
	if parent != NoNode {
		depth = t.Nodes[parent].Depth + 1
	}
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{
		Ring:   ring,
		IsHole: depth%2 == 1,
		Depth:  depth,
		Parent: parent,
	})
	if parent == NoNode {
		t.Roots = append(t.Roots, id)
	} else {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	}
	return id
}

// Walk visits every node depth-first, parents before children, in child
// order.
func (t *Tree) Walk(fn func(id NodeID, n *Node)) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		fn(id, &t.Nodes[id])
		for _, c := range t.Nodes[id].Children {
			visit(c)
		}
	}
	for _, r := range t.Roots {
		visit(r)
	}
}

// Polygons returns every solid node with its direct hole children as a
// polygon, in walk order.
func (t *Tree) Polygons() []geom.PolygonWithHoles {
	var out []geom.PolygonWithHoles
	t.Walk(func(id NodeID, n *Node) {
		if n.IsHole {
			return
		}
		out = append(out, t.Polygon(id))
	})
	return out
}

// Polygon returns node id as an outer ring plus its direct hole children.
func (t *Tree) Polygon(id NodeID) geom.PolygonWithHoles {
	n := &t.Nodes[id]
	p := geom.PolygonWithHoles{Outer: n.Ring}
	for _, c := range n.Children {
		if t.Nodes[c].IsHole {
			p.Holes = append(p.Holes, t.Nodes[c].Ring)
		}
	}
	return p
}

// Area returns the net solid area of the tree.
func (t *Tree) Area() float64 {
	var a float64
	for _, n := range t.Nodes {
		if n.IsHole {
			a -= geom.Area(n.Ring)
		} else {
			a += geom.Area(n.Ring)
		}
	}
	return a
}
