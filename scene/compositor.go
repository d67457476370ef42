package scene

import "log/slog"

// DefaultMaxDepth bounds ancestor walks.
const DefaultMaxDepth = 1024

const (
	pending uint8 = iota
	visiting
	done
)

// Compositor holds one tick's local transforms and memoises the world
// transform of each node. Call Reset between ticks.
type Compositor struct {
	MaxDepth int

	graph  *Graph
	logger *slog.Logger
	local  []Transform
	world  []Transform
	state  []uint8
	path   []int
	warned []bool
}

// NewCompositor sizes the per-tick tables to the graph. A nil logger
// discards warnings.
func NewCompositor(g *Graph, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := new(Compositor)
	c.MaxDepth = DefaultMaxDepth
	c.graph = g
	c.logger = logger
	c.local = make([]Transform, g.Len())
	c.world = make([]Transform, g.Len())
	c.state = make([]uint8, g.Len())
	c.warned = make([]bool, g.Len())
	c.Reset()
	return c
}

// Graph returns the graph the compositor was built for.
func (c *Compositor) Graph() *Graph {
	return c.graph
}

// Reset restores every local transform to identity and clears the memo.
func (c *Compositor) Reset() {
	id := Identity()
	for i := range c.local {
		c.local[i] = id
		c.state[i] = pending
	}
}

// Local returns node i's local transform for in-place accumulation.
func (c *Compositor) Local(i int) *Transform {
	return &c.local[i]
}

// WorldByID resolves a node id before composing it.
func (c *Compositor) WorldByID(id string) (Transform, bool) {
	i, ok := c.graph.Index(id)
	if !ok {
		return Transform{}, false
	}
	return c.World(i), true
}

// World returns the composed transform of node i. A cycle or a chain deeper
// than MaxDepth is cut at the offending ancestor, which is then treated as
// a root.
func (c *Compositor) World(i int) Transform {
	if c.state[i] == done {
		return c.world[i]
	}

	path := c.path[:0]
	n := i
	for n != NoParent && c.state[n] != done {
		if c.state[n] == visiting {
			c.warn(i, "scene graph cycle", "at", c.graph.ID(n))
			n = NoParent
			break
		}
		if len(path) >= c.MaxDepth {
			c.warn(i, "scene graph too deep", "depth", len(path))
			n = NoParent
			break
		}
		c.state[n] = visiting
		path = append(path, n)
		n = c.graph.Parent(n)
	}

	base := Identity()
	if n != NoParent {
		base = c.world[n]
	}
	for k := len(path) - 1; k >= 0; k-- {
		p := path[k]
		base = Compose(base, c.local[p])
		c.world[p] = base
		c.state[p] = done
	}
	c.path = path

	return c.world[i]
}

// warn logs a broken ancestry once per node.
func (c *Compositor) warn(i int, msg string, args ...any) {
	if c.warned[i] {
		return
	}
	c.warned[i] = true
	c.logger.Warn(msg, append([]any{"node", c.graph.ID(i)}, args...)...)
}
