package libvitrite_test

import (
	"testing"

	"github.com/vitrite-systems/vitrite/govitrite"
	"github.com/vitrite-systems/vitrite/libvitrite"
)

func mustParseDi(expr string) *libvitrite.DiGraph {
	dg, err := libvitrite.ParseDiGraph(expr)
	if err != nil {
		gT.Fatalf("parse %q: %v", expr, err)
	}
	return dg
}

func enumerateDi(dg *libvitrite.DiGraph, opts libvitrite.DiEnumOpts) []govitrite.Cycle {
	stream, err := libvitrite.EnumerateDiCycles(dg, opts)
	if err != nil {
		gT.Fatal(err)
	}
	return stream.Collect()
}

func TestDiTriangle(t *testing.T) {
	gT = t

	cycles := enumerateDi(mustParseDi("1>2>3>1"), libvitrite.DiEnumOpts{Size: 3})
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles", len(cycles))
	}
	c := cycles[0]
	if c[0] != 1 || c[1] != 2 || c[2] != 3 {
		t.Fatalf("got %v", c)
	}

	// the walk must honor arc direction: the reversed ring is a different cycle
	if got := enumerateDi(mustParseDi("1<2<3<1"), libvitrite.DiEnumOpts{Size: 3}); len(got) != 1 {
		t.Fatalf("reversed ring: got %d cycles", len(got))
	} else if got[0][1] != 3 {
		t.Fatalf("reversed ring walks %v", got[0])
	}
}

func TestDiBothDirections(t *testing.T) {
	gT = t

	// anti-parallel arcs on every edge: both traversals exist
	dg := mustParseDi("1>2>3>1, 1<2<3<1")
	cycles := enumerateDi(dg, libvitrite.DiEnumOpts{Size: 3})
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles", len(cycles))
	}
}

func TestDiExactSize(t *testing.T) {
	gT = t

	dg := mustParseDi("1>2>3>4>1")
	if got := enumerateDi(dg, libvitrite.DiEnumOpts{Size: 3}); len(got) != 0 {
		t.Fatalf("size 3 on a square: got %v", got)
	}
	if got := enumerateDi(dg, libvitrite.DiEnumOpts{Size: 4}); len(got) != 1 {
		t.Fatalf("size 4 on a square: got %v", got)
	}
}

func TestDiZeroOffsetOnly(t *testing.T) {
	gT = t

	dg := mustParseDi("1>2>3>1@0:0:1")
	if got := enumerateDi(dg, libvitrite.DiEnumOpts{Size: 3}); len(got) != 1 {
		t.Fatalf("unfiltered: got %d", len(got))
	}
	if got := enumerateDi(dg, libvitrite.DiEnumOpts{Size: 3, ZeroOffsetOnly: true}); len(got) != 0 {
		t.Fatalf("spanning ring not filtered: %v", got)
	}

	// offsets that cancel along the ring survive the filter
	dg = mustParseDi("1>2@0:0:1, 2>3, 3>1@0:0:-1")
	if got := enumerateDi(dg, libvitrite.DiEnumOpts{Size: 3, ZeroOffsetOnly: true}); len(got) != 1 {
		t.Fatalf("zero-sum ring filtered out: got %d", len(got))
	}
}

func TestDiBadParams(t *testing.T) {
	gT = t

	if _, err := libvitrite.EnumerateDiCycles(nil, libvitrite.DiEnumOpts{Size: 3}); err != govitrite.ErrNilGraph {
		t.Fatalf("expected ErrNilGraph, got %v", err)
	}
	if _, err := libvitrite.EnumerateDiCycles(mustParseDi("1>2>3>1"), libvitrite.DiEnumOpts{Size: 2}); err != govitrite.ErrBadCycleSize {
		t.Fatalf("expected ErrBadCycleSize, got %v", err)
	}
}

func TestOrientations(t *testing.T) {
	gT = t

	// ring with one arc running against the canonical walk direction
	ring := mustParseDi("1>2, 3>2, 3>1")
	oriented, err := libvitrite.EnumerateOrientations(ring, libvitrite.EnumOpts{MaxSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(oriented) != 1 {
		t.Fatalf("got %d oriented cycles", len(oriented))
	}

	oc := oriented[0]
	// canonical walk is 1,2,3: arcs 1>2 present, 2>3 absent, 3>1 present
	want := []bool{true, false, true}
	for i, fwd := range want {
		if oc.Fwd[i] != fwd {
			t.Fatalf("Fwd = %v (walk %v)", oc.Fwd, oc.Cycle)
		}
	}
}
