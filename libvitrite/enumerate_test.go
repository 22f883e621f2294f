package libvitrite_test

import (
	"testing"

	"github.com/vitrite-systems/vitrite/govitrite"
	"github.com/vitrite-systems/vitrite/libvitrite"
)

const cubeExpr = "1-2-3-4-1, 1-5, 2-6, 3-7, 4-8, 5-6-7-8-5"

func enumerate(g *libvitrite.Graph, opts libvitrite.EnumOpts) []govitrite.Cycle {
	en, err := libvitrite.NewEnumerator(g, opts)
	if err != nil {
		gT.Fatal(err)
	}
	stream := en.EnumerateCycles()
	cycles := stream.Collect()
	if err := stream.Err(); err != nil {
		gT.Fatal(err)
	}
	return cycles
}

func TestTriangle(t *testing.T) {
	gT = t

	cycles := enumerate(mustParse("1-2-3-1"), libvitrite.EnumOpts{MaxSize: 3})
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles", len(cycles))
	}
	want := govitrite.Cycle{1, 2, 3}
	for i, n := range want {
		if cycles[0][i] != n {
			t.Fatalf("canonical form: got %v", cycles[0])
		}
	}
}

func TestCubeFaces(t *testing.T) {
	gT = t

	cycles := enumerate(mustParse(cubeExpr), libvitrite.EnumOpts{MaxSize: 4})
	if len(cycles) != 6 {
		t.Fatalf("cube has 6 faces, got %d cycles", len(cycles))
	}
	for _, c := range cycles {
		if c.Size() != 4 {
			t.Fatalf("expected 4-cycles only, got %v", c)
		}
	}
}

func TestDisjointTriangles(t *testing.T) {
	gT = t

	cycles := enumerate(mustParse("1-2-3-1, 4-5-6-4"), libvitrite.EnumOpts{MaxSize: 6})
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles", len(cycles))
	}
}

// A chord must suppress the cycle it shortcuts: a 4-cycle with a diagonal
// reduces to two triangles.
func TestChordSuppression(t *testing.T) {
	gT = t

	cycles := enumerate(mustParse("1-2-3-4-1, 1-3"), libvitrite.EnumOpts{MaxSize: 4})
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles: %v", len(cycles), cycles)
	}
	for _, c := range cycles {
		if c.Size() != 3 {
			t.Fatalf("expected triangles only, got %v", c)
		}
	}
}

func TestEnumerationIsIdempotent(t *testing.T) {
	gT = t

	g := mustParse(cubeExpr)
	en, err := libvitrite.NewEnumerator(g, libvitrite.EnumOpts{MaxSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	en.EnumerateCycles().PullAll()
	if en.Index.NumCycles() != 6 {
		t.Fatalf("index holds %d cycles", en.Index.NumCycles())
	}

	// re-inserting every cycle changes nothing
	en.Index.ForEachCycle(func(id govitrite.CycleID, c govitrite.Cycle) bool {
		again, isNew := en.Index.TryAdd(c)
		if isNew || again != id {
			t.Fatalf("TryAdd not idempotent for %v", c)
		}
		return true
	})
	if en.Index.NumCycles() != 6 {
		t.Fatalf("index grew to %d cycles", en.Index.NumCycles())
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	gT = t

	seq := enumerate(mustParse(cubeExpr), libvitrite.EnumOpts{MaxSize: 4})
	par := enumerate(mustParse(cubeExpr), libvitrite.EnumOpts{MaxSize: 4, Workers: 4})
	if len(seq) != len(par) {
		t.Fatalf("sequential found %d, parallel found %d", len(seq), len(par))
	}

	keys := libvitrite.NewKeySet()
	defer keys.Close()
	for _, c := range seq {
		if !keys.TryAdd(c.AppendKeyTo(nil)) {
			t.Fatalf("sequential emitted duplicate cycle %v", c)
		}
	}
	for _, c := range par {
		if keys.TryAdd(c.AppendKeyTo(nil)) {
			t.Fatalf("parallel emitted unknown cycle %v", c)
		}
	}
}

func TestEnumLimit(t *testing.T) {
	gT = t

	en, err := libvitrite.NewEnumerator(mustParse(cubeExpr), libvitrite.EnumOpts{
		MaxSize:    4,
		CountLimit: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	stream := en.EnumerateCycles()
	stream.PullAll()
	if stream.Err() != govitrite.ErrEnumLimit {
		t.Fatalf("expected ErrEnumLimit, got %v", stream.Err())
	}
}

func TestBadEnumParams(t *testing.T) {
	gT = t

	if _, err := libvitrite.NewEnumerator(mustParse("1-2-3-1"), libvitrite.EnumOpts{MaxSize: 2}); err != govitrite.ErrBadCycleSize {
		t.Fatalf("expected ErrBadCycleSize, got %v", err)
	}
	if _, err := libvitrite.NewEnumerator(nil, libvitrite.EnumOpts{MaxSize: 4}); err != govitrite.ErrNilGraph {
		t.Fatalf("expected ErrNilGraph, got %v", err)
	}

	bv := badView{Graph: mustParse("1-2-3-1"), loopAt: 1}
	if _, err := libvitrite.NewEnumerator(bv, libvitrite.EnumOpts{MaxSize: 4}); err != govitrite.ErrSelfLoop {
		t.Fatalf("expected ErrSelfLoop, got %v", err)
	}
}

func TestSkipSpanning(t *testing.T) {
	gT = t

	// triangle closed across the periodic cell boundary
	g := mustParse("1-2-3-1@0:0:1")

	kept := enumerate(g, libvitrite.EnumOpts{MaxSize: 3})
	if len(kept) != 1 {
		t.Fatalf("got %d cycles without filtering", len(kept))
	}

	skipped := enumerate(g, libvitrite.EnumOpts{MaxSize: 3, SkipSpanning: true})
	if len(skipped) != 0 {
		t.Fatalf("spanning cycle not skipped: %v", skipped)
	}
}
