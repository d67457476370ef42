package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRootWorldEqualsLocal(t *testing.T) {
	g := NewGraph([]Node{{ID: "root"}})
	c := NewCompositor(g, nil)

	p := 400.0
	local := c.Local(0)
	local.Position = mgl64.Vec3{3, 4, 5}
	local.Scale = mgl64.Vec3{2, 0.5, 1}
	local.Rotation = mgl64.Vec3{10, 20, 30}
	local.Opacity = 0.25
	local.Perspective = &p

	world := c.World(0)
	if !world.ApproxEqual(*local, 0) {
		t.Errorf("expected world == local, got %+v vs %+v", world, *local)
	}
}

func TestChildOffsetScaledByParent(t *testing.T) {
	g := NewGraph([]Node{{ID: "a"}, {ID: "b", ParentID: "a"}})
	c := NewCompositor(g, nil)

	a, _ := g.Index("a")
	b, _ := g.Index("b")
	c.Local(a).Scale = mgl64.Vec3{2, 3, 1}
	c.Local(a).Position = mgl64.Vec3{7, 0, 0}
	c.Local(b).Position = mgl64.Vec3{10, 10, 0}

	wa := c.World(a)
	wb := c.World(b)
	if wb.Position.X() != wa.Position.X()+20 {
		t.Errorf("expected world.x(B) = world.x(A) + 20, got %v vs %v", wb.Position.X(), wa.Position.X())
	}
	if wb.Position.Y() != wa.Position.Y()+30 {
		t.Errorf("expected world.y(B) = world.y(A) + 30, got %v", wb.Position.Y())
	}
	if wb.Scale != (mgl64.Vec3{2, 3, 1}) {
		t.Errorf("expected inherited scale, got %v", wb.Scale)
	}
}

func TestComposeChannels(t *testing.T) {
	pp := 800.0
	parent := Identity()
	parent.Rotation = mgl64.Vec3{0, 45, 90}
	parent.Opacity = 0.5
	parent.Perspective = &pp

	local := Identity()
	local.Rotation = mgl64.Vec3{10, 0, 90}
	local.Opacity = 0.5

	w := Compose(parent, local)
	if w.Rotation != (mgl64.Vec3{10, 45, 180}) {
		t.Errorf("expected per-axis rotation sum, got %v", w.Rotation)
	}
	if w.Opacity != 0.25 {
		t.Errorf("expected opacity 0.25, got %v", w.Opacity)
	}
	if w.Perspective == nil || *w.Perspective != 800 {
		t.Errorf("expected inherited perspective")
	}

	lp := 300.0
	local.Perspective = &lp
	w = Compose(parent, local)
	if *w.Perspective != 300 {
		t.Errorf("expected overridden perspective, got %v", *w.Perspective)
	}
}

func TestWorldMemoisedUntilReset(t *testing.T) {
	g := NewGraph([]Node{{ID: "a"}, {ID: "b", ParentID: "a"}})
	c := NewCompositor(g, nil)

	c.Local(0).Position = mgl64.Vec3{1, 0, 0}
	first := c.World(1)

	// Changing a local after composition is not visible until Reset.
	c.Local(0).Position = mgl64.Vec3{50, 0, 0}
	if again := c.World(1); again.Position != first.Position {
		t.Errorf("expected memoised result, got %v", again.Position)
	}

	c.Reset()
	c.Local(0).Position = mgl64.Vec3{50, 0, 0}
	if fresh := c.World(1); fresh.Position.X() != 50 {
		t.Errorf("expected recomputed position 50, got %v", fresh.Position.X())
	}
}

func TestCycleIsCut(t *testing.T) {
	g := NewGraph([]Node{
		{ID: "a", ParentID: "c"},
		{ID: "b", ParentID: "a"},
		{ID: "c", ParentID: "b"},
	})
	c := NewCompositor(g, nil)
	for i := 0; i < g.Len(); i++ {
		c.Local(i).Position = mgl64.Vec3{1, 0, 0}
	}

	for i := 0; i < g.Len(); i++ {
		w := c.World(i)
		if math.IsNaN(w.Position.X()) || w.Position.X() < 1 || w.Position.X() > 3 {
			t.Errorf("node %s: unexpected position %v", g.ID(i), w.Position)
		}
	}
}

func TestDepthCap(t *testing.T) {
	nodes := []Node{{ID: nodeID(0)}}
	for i := 1; i < 50; i++ {
		nodes = append(nodes, Node{ID: nodeID(i), ParentID: nodeID(i - 1)})
	}
	g := NewGraph(nodes)
	c := NewCompositor(g, nil)
	c.MaxDepth = 10
	for i := 0; i < g.Len(); i++ {
		c.Local(i).Position = mgl64.Vec3{1, 0, 0}
	}

	leaf, _ := g.Index(nodeID(49))
	if x := c.World(leaf).Position.X(); x != 10 {
		t.Errorf("expected the walk to stop after 10 ancestors, got x=%v", x)
	}
}

func TestGraphUnknownParentIsRoot(t *testing.T) {
	g := NewGraph([]Node{{ID: "orphan", ParentID: "missing"}, {ID: "orphan", ParentID: "x"}})
	if g.Len() != 1 {
		t.Fatalf("expected duplicates to collapse, got %d nodes", g.Len())
	}
	if g.Parent(0) != NoParent {
		t.Errorf("expected a root, got parent %d", g.Parent(0))
	}
}

func TestMatrixTranslation(t *testing.T) {
	tr := Identity()
	tr.Position = mgl64.Vec3{5, 6, 7}
	m := tr.Matrix()
	if m.Col(3) != (mgl64.Vec4{5, 6, 7, 1}) {
		t.Errorf("unexpected translation column %v", m.Col(3))
	}
}

func nodeID(i int) string {
	return "n" + string(rune('A'+i))
}

func TestTransformApproxEqual(t *testing.T) {
	a := Identity()
	b := Identity()
	b.Position[0] = 1e-12
	b.Opacity = 1 + 1e-12
	if !a.ApproxEqual(b, 1e-6) {
		t.Errorf("expected %+v ~ %+v", a, b)
	}

	b.Opacity = 0.5
	if a.ApproxEqual(b, 1e-6) {
		t.Error("opacity difference not detected")
	}

	c := Identity()
	p := 800.0
	c.Perspective = &p
	if a.ApproxEqual(c, 1e-6) || c.ApproxEqual(a, 1e-6) {
		t.Error("perspective presence not compared")
	}
}
