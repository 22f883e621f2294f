package libvitrite_test

import (
	"testing"

	"github.com/vitrite-systems/vitrite/govitrite"
	"github.com/vitrite-systems/vitrite/libvitrite"
)

func buildIndex(g *libvitrite.Graph, maxSize int) *libvitrite.CycleIndex {
	en, err := libvitrite.NewEnumerator(g, libvitrite.EnumOpts{MaxSize: maxSize})
	if err != nil {
		gT.Fatal(err)
	}
	en.EnumerateCycles().PullAll()
	return en.Index
}

func TestCubeHull(t *testing.T) {
	gT = t

	g := mustParse(cubeExpr)
	hulls, stats, err := libvitrite.BuildHulls(g, buildIndex(g, 4), libvitrite.HullOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hulls) != 1 {
		t.Fatalf("got %d hulls", len(hulls))
	}

	hull := hulls[0]
	if len(hull.Faces) != 6 || hull.Verts != 8 || hull.Edges != 12 {
		t.Fatalf("cube hull: F=%d V=%d E=%d", len(hull.Faces), hull.Verts, hull.Edges)
	}
	if hull.EulerIndex() != 2 {
		t.Fatalf("Euler index %d", hull.EulerIndex())
	}
	if stats.Coverage() != 1.0 {
		t.Fatalf("coverage %v", stats.Coverage())
	}
}

func TestTetrahedronHull(t *testing.T) {
	gT = t

	g := mustParse("1-2-3-4-1, 1-3, 2-4")
	hulls, _, err := libvitrite.BuildHulls(g, buildIndex(g, 3), libvitrite.HullOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hulls) != 1 {
		t.Fatalf("got %d hulls", len(hulls))
	}
	hull := hulls[0]
	if len(hull.Faces) != 4 || hull.Verts != 4 || hull.Edges != 6 {
		t.Fatalf("tetrahedron hull: F=%d V=%d E=%d", len(hull.Faces), hull.Verts, hull.Edges)
	}
}

// A lone triangle can't close a surface; its edges stay uncovered.
func TestOpenTriangleIsNotAHull(t *testing.T) {
	gT = t

	g := mustParse("1-2-3-1")
	hulls, stats, err := libvitrite.BuildHulls(g, buildIndex(g, 3), libvitrite.HullOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hulls) != 0 {
		t.Fatalf("got %d hulls", len(hulls))
	}
	if stats.EdgesCovered != 0 || stats.Coverage() != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestDisjointTrianglesNoHull(t *testing.T) {
	gT = t

	g := mustParse("1-2-3-1, 4-5-6-4")
	hulls, stats, err := libvitrite.BuildHulls(g, buildIndex(g, 6), libvitrite.HullOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hulls) != 0 {
		t.Fatalf("got %d hulls", len(hulls))
	}
	if stats.EdgesTotal != 6 {
		t.Fatalf("stats: %+v", stats)
	}
}

// Two cubes sharing nothing give two hulls; the uncovered bridge edge between
// them is reported by the stats, not an error.
func TestTwoCubesWithBridge(t *testing.T) {
	gT = t

	const cube2 = "11-12-13-14-11, 11-15, 12-16, 13-17, 14-18, 15-16-17-18-15"
	g := mustParse(cubeExpr + ", " + cube2 + ", 8-11")

	hulls, stats, err := libvitrite.BuildHulls(g, buildIndex(g, 4), libvitrite.HullOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hulls) != 2 {
		t.Fatalf("got %d hulls", len(hulls))
	}
	if stats.EdgesCovered != 24 || stats.EdgesTotal != 25 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestHullInconsistency(t *testing.T) {
	gT = t

	g := mustParse("1-2-3-1")
	idx := libvitrite.NewCycleIndex()
	idx.TryAdd(govitrite.Cycle{7, 8, 9})

	_, _, err := libvitrite.BuildHulls(g, idx, libvitrite.HullOpts{})
	if err != govitrite.ErrHullInconsistency {
		t.Fatalf("expected ErrHullInconsistency, got %v", err)
	}
}

func TestHullDeterminism(t *testing.T) {
	gT = t

	g1 := mustParse(cubeExpr)
	hulls1, _, err := libvitrite.BuildHulls(g1, buildIndex(g1, 4), libvitrite.HullOpts{})
	if err != nil {
		t.Fatal(err)
	}

	g2 := mustParse(cubeExpr)
	hulls2, _, err := libvitrite.BuildHulls(g2, buildIndex(g2, 4), libvitrite.HullOpts{})
	if err != nil {
		t.Fatal(err)
	}

	if len(hulls1) != len(hulls2) {
		t.Fatal("hull counts differ")
	}
	for i := range hulls1 {
		f1, f2 := hulls1[i].Faces, hulls2[i].Faces
		if len(f1) != len(f2) {
			t.Fatal("face counts differ")
		}
		for j := range f1 {
			if string(f1[j].AppendKeyTo(nil)) != string(f2[j].AppendKeyTo(nil)) {
				t.Fatalf("face order differs at hull %d face %d", i, j)
			}
		}
	}
}
