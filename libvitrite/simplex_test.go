package libvitrite_test

import (
	"testing"

	"github.com/vitrite-systems/vitrite/govitrite"
	"github.com/vitrite-systems/vitrite/libvitrite"
)

// octahedron on nodes 1..6: every node adjacent to all but its antipode.
// Antipodal pairs: (1,6), (2,5), (3,4).
func octahedronGraph() *libvitrite.Graph {
	g := libvitrite.NewGraph()
	antipode := map[govitrite.NodeID]govitrite.NodeID{1: 6, 2: 5, 3: 4, 4: 3, 5: 2, 6: 1}
	for a := govitrite.NodeID(1); a <= 6; a++ {
		for b := a + 1; b <= 6; b++ {
			if antipode[a] == b {
				continue
			}
			if err := g.AddEdge(a, b); err != nil {
				panic(err)
			}
		}
	}
	return g
}

func TestTriangleSimplices(t *testing.T) {
	gT = t

	found, err := libvitrite.EnumerateSimplices(mustParse("1-2-3-1, 3-4"), govitrite.Triangle)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 {
		t.Fatalf("got %d triangles", len(found))
	}
	tri := found[0]
	if tri[0] != 1 || tri[1] != 2 || tri[2] != 3 {
		t.Fatalf("got %v", tri)
	}
}

func TestTetrahedronSimplices(t *testing.T) {
	gT = t

	k4 := mustParse("1-2-3-4-1, 1-3, 2-4")
	tris, err := libvitrite.EnumerateSimplices(k4, govitrite.Triangle)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 4 {
		t.Fatalf("K4 has 4 triangles, got %d", len(tris))
	}

	tets, err := libvitrite.EnumerateSimplices(k4, govitrite.Tetrahedron)
	if err != nil {
		t.Fatal(err)
	}
	if len(tets) != 1 {
		t.Fatalf("K4 is 1 tetrahedron, got %d", len(tets))
	}
}

func TestOctahedronSimplices(t *testing.T) {
	gT = t

	g := octahedronGraph()

	tris, err := libvitrite.EnumerateSimplices(g, govitrite.Triangle)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 8 {
		t.Fatalf("octahedron has 8 triangular faces, got %d", len(tris))
	}

	// no 4 mutually adjacent nodes exist
	tets, err := libvitrite.EnumerateSimplices(g, govitrite.Tetrahedron)
	if err != nil {
		t.Fatal(err)
	}
	if len(tets) != 0 {
		t.Fatalf("got %d tetrahedra", len(tets))
	}

	octs, err := libvitrite.EnumerateSimplices(g, govitrite.Octahedron)
	if err != nil {
		t.Fatal(err)
	}
	if len(octs) != 1 {
		t.Fatalf("got %d octahedra", len(octs))
	}
	oct := octs[0]
	for i, want := range []govitrite.NodeID{1, 2, 3, 4, 5, 6} {
		if oct[i] != want {
			t.Fatalf("got %v", oct)
		}
	}
}

func TestBadSimplexKind(t *testing.T) {
	gT = t

	if _, err := libvitrite.EnumerateSimplices(mustParse("1-2"), govitrite.SimplexKind(99)); err != govitrite.ErrBadSimplexKind {
		t.Fatalf("expected ErrBadSimplexKind, got %v", err)
	}
}
