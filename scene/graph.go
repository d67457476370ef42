// Package scene composes node transforms across the read-only scene graph.
package scene

// Node is a scene-graph entry supplied by the topology owner. An empty
// ParentID marks a root.
type Node struct {
	ID       string `yaml:"id"`
	ParentID string `yaml:"parent,omitempty"`
}

// NoParent marks a root in Graph.Parent.
const NoParent = -1

// Graph is an arena of nodes with integer parent links.
type Graph struct {
	ids     []string
	parents []int
	index   map[string]int
}

// NewGraph indexes nodes. Parents that are not in the list are treated as
// absent, making the node a root. Duplicate ids keep the first entry.
func NewGraph(nodes []Node) *Graph {
	g := new(Graph)
	g.ids = make([]string, 0, len(nodes))
	g.index = make(map[string]int, len(nodes))

	for _, n := range nodes {
		if _, dup := g.index[n.ID]; dup {
			continue
		}
		g.index[n.ID] = len(g.ids)
		g.ids = append(g.ids, n.ID)
	}

	g.parents = make([]int, len(g.ids))
	for i := range g.parents {
		g.parents[i] = NoParent
	}
	linked := make([]bool, len(g.ids))
	for _, n := range nodes {
		i := g.index[n.ID]
		if linked[i] {
			continue
		}
		linked[i] = true
		if p, ok := g.index[n.ParentID]; ok && n.ParentID != "" {
			g.parents[i] = p
		}
	}

	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Index looks up a node by id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// ID returns the id of node i.
func (g *Graph) ID(i int) string {
	return g.ids[i]
}

// Parent returns the parent index of node i, or NoParent.
func (g *Graph) Parent(i int) int {
	return g.parents[i]
}
